// =============================================================================
// Crime Chart - Row Adapter and Validation
// =============================================================================
//
// This module turns parsed table rows into types.Row values and reports
// problems with the data. It runs in one of two modes:
//
//   LENIENT (default): values are coerced like JavaScript's unary plus. A
//     missing field becomes an empty label, a blank value counts as 0 and
//     a value that is not a number becomes NaN. Nothing is rejected.
//
//   STRICT: a missing year or category fails with ErrInvalidRow and a
//     value that is not a non-negative number fails with ErrInvalidValue.
//
// Aggregation requires rows of the same year to be contiguous.
// CheckContiguous reports every violation as a warning; it never changes
// how rows are grouped.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/csvparser"
	"github.com/ginjaninja78/crimechart/internal/types"
)

// Sentinel errors wrapped by ValidationError. ErrInvalidValue is the
// sentinel aggregate.AggregateStrict wraps too.
var (
	ErrInvalidRow   = errors.New("invalid row")
	ErrInvalidValue = types.ErrInvalidValue
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single problem found in the data.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the column the problem was found in.
	Field string

	// Value is the offending raw value.
	Value string

	// Message is a human-readable description.
	Message string

	// RowNumber is the source row number, 0 if unknown.
	RowNumber int

	// Err is the sentinel this error wraps, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] row %d, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// Unwrap returns the wrapped sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ROW ADAPTER
// =============================================================================

// Adapter maps parsed table rows onto types.Row.
type Adapter struct {
	YearField     string
	CategoryField string
	ValueField    string

	// Strict rejects missing labels and malformed values.
	Strict bool
}

// NewAdapter builds an adapter from the configured field names.
func NewAdapter(fields config.FieldSettings, strict bool) *Adapter {
	return &Adapter{
		YearField:     fields.Year,
		CategoryField: fields.Category,
		ValueField:    fields.Value,
		Strict:        strict,
	}
}

// CheckHeaders verifies the table has every column the adapter reads.
// In lenient mode missing columns are tolerated and reported as warnings.
func (a *Adapter) CheckHeaders(headers []string) []*ValidationError {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var errs []*ValidationError
	for _, field := range []string{a.YearField, a.CategoryField, a.ValueField} {
		if present[field] {
			continue
		}
		severity := SeverityWarning
		if a.Strict {
			severity = SeverityError
		}
		errs = append(errs, &ValidationError{
			Severity: severity,
			Field:    field,
			Message:  "column not found in header",
			Err:      ErrInvalidRow,
		})
	}
	return errs
}

// Row converts a single raw row. line is the source row number.
func (a *Adapter) Row(raw map[string]string, line int) (types.Row, error) {
	year, yearOK := raw[a.YearField]
	category, categoryOK := raw[a.CategoryField]
	rawValue, valueOK := raw[a.ValueField]

	if !a.Strict {
		value := math.NaN()
		if valueOK {
			value = LenientValue(rawValue)
		}
		return types.Row{Year: year, Category: category, Value: value, Line: line}, nil
	}

	if !yearOK || strings.TrimSpace(year) == "" {
		return types.Row{}, missingField(a.YearField, line)
	}
	if !categoryOK || strings.TrimSpace(category) == "" {
		return types.Row{}, missingField(a.CategoryField, line)
	}

	value, err := ParseValue(rawValue)
	if err != nil {
		return types.Row{}, &ValidationError{
			Severity:  SeverityError,
			Field:     a.ValueField,
			Value:     rawValue,
			Message:   err.Error(),
			RowNumber: line,
			Err:       ErrInvalidValue,
		}
	}

	return types.Row{Year: year, Category: category, Value: value, Line: line}, nil
}

// Rows converts every row of table. In strict mode the first invalid row
// stops the conversion.
func (a *Adapter) Rows(table *csvparser.Table) ([]types.Row, error) {
	rows := make([]types.Row, 0, table.Len())
	for i, raw := range table.Rows {
		line := 0
		if i < len(table.Lines) {
			line = table.Lines[i]
		}
		row, err := a.Row(raw, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func missingField(field string, line int) *ValidationError {
	return &ValidationError{
		Severity:  SeverityError,
		Field:     field,
		Message:   "required field is missing or empty",
		RowNumber: line,
		Err:       ErrInvalidRow,
	}
}

// LenientValue coerces s like JavaScript's unary plus: blank is 0,
// anything unparsable is NaN.
func LenientValue(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseValue parses a count. Surrounding spaces are accepted; anything
// that is not a finite, non-negative number is an error.
func ParseValue(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count")
	}
	return v, nil
}

// =============================================================================
// CONTIGUITY CHECK
// =============================================================================

// CheckContiguous returns a warning for every row that starts a second
// (or later) run of a year label already seen earlier in rows. Such rows
// produce an extra record for the same year when aggregated.
func CheckContiguous(rows []types.Row) []*ValidationError {
	var warnings []*ValidationError
	seen := make(map[string]bool)

	for i, row := range rows {
		if i > 0 && rows[i-1].Year == row.Year {
			continue
		}
		if seen[row.Year] {
			warnings = append(warnings, &ValidationError{
				Severity:  SeverityWarning,
				Field:     "year",
				Value:     row.Year,
				Message:   "year reappears after a different year; rows must be grouped by year",
				RowNumber: row.Line,
			})
		}
		seen[row.Year] = true
	}
	return warnings
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// HasErrors reports whether errs contains an error-severity entry.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FormatErrors formats validation errors for display.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var sb strings.Builder
	var errorCount, warningCount int
	for _, e := range errs {
		if e.Severity == SeverityError {
			errorCount++
		} else {
			warningCount++
		}
	}

	sb.WriteString(fmt.Sprintf("Validation found %d error(s) and %d warning(s):\n", errorCount, warningCount))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, e.Error()))
	}
	return sb.String()
}

// WriteErrorLog writes formatted validation errors to filePath.
func WriteErrorLog(errs []*ValidationError, filePath string) error {
	if err := os.WriteFile(filePath, []byte(FormatErrors(errs)), 0644); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
