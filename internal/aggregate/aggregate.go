// =============================================================================
// Crime Chart - Aggregation Module
// =============================================================================
//
// This module groups flat (year, category, value) rows into one record per
// contiguous year run and collects the categories seen.
//
// GROUPING RULES:
//   - Rows for the same year must be contiguous. A year label that
//     reappears after a different year starts a new record, so that year
//     shows up twice in the output. validation.CheckContiguous reports
//     this case before aggregation.
//   - Within a record the last value for a category wins.
//   - Categories are kept in order of first appearance.
//
// =============================================================================

package aggregate

import (
	"fmt"
	"math"

	"github.com/ginjaninja78/crimechart/internal/types"
)

// RowError ties an aggregation failure to its source row.
type RowError struct {
	Row types.Row
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d (year %q, category %q): %v", e.Row.Line, e.Row.Year, e.Row.Category, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// accumulator is the fold state carried across rows.
type accumulator struct {
	records    []types.YearRecord
	current    *types.YearRecord
	categories *types.CategorySet
}

func newAccumulator() accumulator {
	return accumulator{
		records:    []types.YearRecord{},
		categories: &types.CategorySet{},
	}
}

// step folds one row into the accumulator.
func (a accumulator) step(row types.Row) accumulator {
	if a.current == nil {
		rec := types.NewYearRecord(row.Year)
		a.current = &rec
	} else if a.current.Year != row.Year {
		a.records = append(a.records, *a.current)
		rec := types.NewYearRecord(row.Year)
		a.current = &rec
	}
	a.current.Values[row.Category] = row.Value
	a.categories.Add(row.Category)
	return a
}

// finish flushes the open record.
func (a accumulator) finish() ([]types.YearRecord, *types.CategorySet) {
	if a.current != nil {
		a.records = append(a.records, *a.current)
	}
	return a.records, a.categories
}

// Aggregate folds rows into per-year records and the insertion-ordered
// category set.
//
// PARAMETERS:
//   - rows: Adapted rows in source order. NaN values are carried through
//     unchanged.
//
// RETURNS:
//   - One record per contiguous year run, never nil.
//   - The categories in order of first appearance.
func Aggregate(rows []types.Row) ([]types.YearRecord, *types.CategorySet) {
	acc := newAccumulator()
	for _, row := range rows {
		acc = acc.step(row)
	}
	return acc.finish()
}

// AggregateStrict is Aggregate with value checking.
//
// RETURNS:
//   - The records and categories, as for Aggregate.
//   - A *RowError wrapping types.ErrInvalidValue for the first row whose
//     value is NaN, infinite or negative. Nothing is returned with it.
func AggregateStrict(rows []types.Row) ([]types.YearRecord, *types.CategorySet, error) {
	acc := newAccumulator()
	for _, row := range rows {
		if err := checkValue(row.Value); err != nil {
			return nil, nil, &RowError{Row: row, Err: err}
		}
		acc = acc.step(row)
	}
	records, categories := acc.finish()
	return records, categories, nil
}

func checkValue(v float64) error {
	switch {
	case math.IsNaN(v):
		return fmt.Errorf("%w: not a number", types.ErrInvalidValue)
	case math.IsInf(v, 0):
		return fmt.Errorf("%w: infinite", types.ErrInvalidValue)
	case v < 0:
		return fmt.Errorf("%w: negative count %g", types.ErrInvalidValue, v)
	}
	return nil
}
