// =============================================================================
// Crime Chart - Stack Module
// =============================================================================
//
// This module computes the cumulative offsets of a stacked bar chart: one
// series per category, one [Lower, Upper] span per year record.
//
// STACKING RULES:
//   - Series are stacked in category order on a zero baseline.
//   - A category a record does not mention contributes 0.
//   - A NaN value leaves that point's Upper as NaN, and the next series
//     continues from the point's Lower.
//
// =============================================================================

package stack

import (
	"math"

	"github.com/ginjaninja78/crimechart/internal/types"
)

// Point is one bar segment.
type Point struct {
	Year     string
	Category string
	Lower    float64
	Upper    float64

	// Index is the position of the source record.
	Index int
}

// Value is the height of the segment, which is the category's value in
// that record.
func (p Point) Value() float64 {
	return p.Upper - p.Lower
}

// Finite reports whether both ends of the segment are finite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.Lower) && !math.IsNaN(p.Upper) &&
		!math.IsInf(p.Lower, 0) && !math.IsInf(p.Upper, 0)
}

// Series holds the points of one category across all records.
type Series struct {
	Key    string
	Index  int
	Points []Point
}

// Stack builds one series per key over records.
//
// PARAMETERS:
//   - records: The year records, one point each per series.
//   - keys: The categories, bottom of the stack first.
//
// RETURNS:
//   - One series per key, in key order. Series i has Index i.
func Stack(records []types.YearRecord, keys []string) []Series {
	series := make([]Series, len(keys))
	for i, key := range keys {
		points := make([]Point, len(records))
		for j, rec := range records {
			points[j] = Point{
				Year:     rec.Year,
				Category: key,
				Upper:    rec.Value(key),
				Index:    j,
			}
		}
		series[i] = Series{Key: key, Index: i, Points: points}
	}

	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].Points, series[i].Points
		for j := range cur {
			base := prev[j].Upper
			if math.IsNaN(base) {
				base = prev[j].Lower
			}
			cur[j].Lower = base
			cur[j].Upper += base
		}
	}
	return series
}

// Extent returns the smallest and largest finite bound over all points.
// ok is false when there is none.
func Extent(series []Series) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			for _, v := range [2]float64{p.Lower, p.Upper} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
				ok = true
			}
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
