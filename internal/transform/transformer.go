// =============================================================================
// Crime Chart - Label Transformation Engine
// =============================================================================
//
// This module rewrites the year and category labels of adapted rows before
// they are aggregated. Published crime tables often differ in small ways
// between releases (trailing spaces, renamed categories, "2011 " vs
// "2011"); a handful of configured rules brings them back in line.
//
// TRANSFORMATION TYPES:
//   - trim, uppercase, lowercase
//   - prepend_string, append_string
//   - replace (Find -> Value)
//   - lookup (whole-label replacement through LookupTable)
//
// Rules for the same field are applied in configuration order, and the
// actions of each rule in their listed order.
//
// =============================================================================

package transform

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/types"
)

// Field names accepted by TransformationRule.Field.
const (
	FieldYear     = "year"
	FieldCategory = "category"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies label transformation rules.
type Transformer struct {
	year     []config.TransformationAction
	category []config.TransformationAction
}

// NewTransformer creates a Transformer from rules. Rule types are checked
// up front so a typo fails before any row is read.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{}
	for _, rule := range rules {
		for _, action := range rule.Actions {
			if !IsKnown(action.Type) {
				return nil, fmt.Errorf("unknown transformation type: %s", action.Type)
			}
		}
		switch strings.ToLower(rule.Field) {
		case FieldYear:
			t.year = append(t.year, rule.Actions...)
		case FieldCategory:
			t.category = append(t.category, rule.Actions...)
		default:
			return nil, fmt.Errorf("transformation field must be %s or %s, got %q", FieldYear, FieldCategory, rule.Field)
		}
	}
	return t, nil
}

// Empty reports whether the transformer has no actions at all.
func (t *Transformer) Empty() bool {
	return len(t.year) == 0 && len(t.category) == 0
}

// Row returns row with its labels transformed.
func (t *Transformer) Row(row types.Row) (types.Row, error) {
	year, err := apply(row.Year, t.year)
	if err != nil {
		return types.Row{}, fmt.Errorf("line %d, field %s: %w", row.Line, FieldYear, err)
	}
	category, err := apply(row.Category, t.category)
	if err != nil {
		return types.Row{}, fmt.Errorf("line %d, field %s: %w", row.Line, FieldCategory, err)
	}
	row.Year = year
	row.Category = category
	return row, nil
}

// Rows transforms every row in place and returns the slice.
func (t *Transformer) Rows(rows []types.Row) ([]types.Row, error) {
	if t.Empty() {
		return rows, nil
	}
	for i := range rows {
		transformed, err := t.Row(rows[i])
		if err != nil {
			return nil, err
		}
		rows[i] = transformed
	}
	return rows, nil
}

func apply(value string, actions []config.TransformationAction) (string, error) {
	result := value
	for _, action := range actions {
		var err error
		result, err = ApplyTransformation(result, action)
		if err != nil {
			return "", fmt.Errorf("transformation '%s' failed: %w", action.Type, err)
		}
	}
	return result, nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// IsKnown reports whether typ names a supported transformation.
func IsKnown(typ string) bool {
	switch typ {
	case "trim", "uppercase", "lowercase", "prepend_string", "append_string", "replace", "lookup":
		return true
	}
	return false
}

// ApplyTransformation applies a single transformation action to value.
func ApplyTransformation(value string, action config.TransformationAction) (string, error) {
	switch action.Type {
	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "prepend_string":
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "replace":
		// EXAMPLE:
		//   Input: "Theft and related crimes"
		//   Action: replace with find " and related crimes" and value ""
		//   Output: "Theft"
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "lookup":
		// Labels missing from the table pass through unchanged.
		if replacement, ok := action.LookupTable[value]; ok {
			return replacement, nil
		}
		return value, nil

	default:
		return "", fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}
