// =============================================================================
// Crime Chart - Parquet Export
// =============================================================================
//
// This module writes the stacked series in long format, one row per
// segment, with parquet-go.
//
// =============================================================================

package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// PointRow is one stacked bar segment in long format.
type PointRow struct {
	// Year is the year label of the source record.
	Year string `parquet:"year,snappy"`

	// Category is the crime category.
	Category string `parquet:"category,snappy"`

	// Value is the count, Upper - Lower.
	Value float64 `parquet:"value,snappy"`

	// Lower and Upper are the stacked bounds of the segment.
	Lower float64 `parquet:"lower,snappy"`
	Upper float64 `parquet:"upper,snappy"`

	// RecordIndex is the position of the source record. Two records can
	// share a year when its rows were not contiguous.
	RecordIndex int32 `parquet:"record_index,snappy"`
}

// PointRows flattens the stacked series record by record.
func PointRows(d *Data) []PointRow {
	rows := make([]PointRow, 0, len(d.Records)*len(d.Series))
	for j := range d.Records {
		for _, s := range d.Series {
			p := s.Points[j]
			rows = append(rows, PointRow{
				Year:        p.Year,
				Category:    p.Category,
				Value:       p.Value(),
				Lower:       p.Lower,
				Upper:       p.Upper,
				RecordIndex: int32(p.Index),
			})
		}
	}
	return rows
}

// WriteParquet writes PointRows(d) as a Parquet file.
func WriteParquet(w io.Writer, d *Data) error {
	writer := parquet.NewGenericWriter[PointRow](w)

	if _, err := writer.Write(PointRows(d)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
