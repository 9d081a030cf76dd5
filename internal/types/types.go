// =============================================================================
// Crime Chart - Shared Types
// =============================================================================
//
// This package contains the data model shared by the aggregation, stacking,
// chart and export packages. Keeping the types here avoids import cycles:
//   - aggregate  builds YearRecords and the CategorySet from Rows
//   - stack      reads YearRecords in CategorySet order
//   - chart      draws the stacked series
//   - export     serializes records and series
//
// =============================================================================

package types

import (
	"errors"
	"math"
)

// ErrInvalidValue marks a value that is not a finite, non-negative count.
// Both the strict row adapter and strict aggregation wrap it.
var ErrInvalidValue = errors.New("invalid value")

// =============================================================================
// ROW
// =============================================================================

// Row is a single observation from the source data.
type Row struct {
	// Year is the ordinal label of the observation, kept as a string.
	Year string

	// Category names the statistic series (for example a crime type).
	Category string

	// Value is the count. It is NaN when the source value could not be
	// parsed and the adapter runs in lenient mode.
	Value float64

	// Line is the 1-based line number in the source file, 0 if unknown.
	Line int
}

// =============================================================================
// YEAR RECORD
// =============================================================================

// YearRecord holds the values of every category seen in one contiguous
// run of rows sharing the same year label.
type YearRecord struct {
	Year   string
	Values map[string]float64
}

// NewYearRecord returns an empty record for year.
func NewYearRecord(year string) YearRecord {
	return YearRecord{Year: year, Values: make(map[string]float64)}
}

// Get returns the value stored for category and whether it was present.
func (r YearRecord) Get(category string) (float64, bool) {
	v, ok := r.Values[category]
	return v, ok
}

// Value returns the value for category, reading an absent category as 0.
func (r YearRecord) Value(category string) float64 {
	return r.Values[category]
}

// Total sums the finite values of the record.
func (r YearRecord) Total() float64 {
	var total float64
	for _, v := range r.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
	}
	return total
}

// =============================================================================
// CATEGORY SET
// =============================================================================

// CategorySet is an insertion-ordered set of category labels. The order
// drives stacking, colours and the legend, so it must stay deterministic.
//
// The zero value is ready to use.
type CategorySet struct {
	names []string
	index map[string]int
}

// NewCategorySet returns a set holding names in the given order,
// ignoring duplicates.
func NewCategorySet(names ...string) *CategorySet {
	s := &CategorySet{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name if it is not yet present and reports whether it was added.
func (s *CategorySet) Add(name string) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	return true
}

// Contains reports whether name is in the set.
func (s *CategorySet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Index returns the insertion position of name, or -1.
func (s *CategorySet) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of categories.
func (s *CategorySet) Len() int {
	return len(s.names)
}

// Names returns a copy of the categories in insertion order.
func (s *CategorySet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
