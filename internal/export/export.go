// =============================================================================
// Crime Chart - Export Module
// =============================================================================
//
// This module writes aggregated crime records in machine-readable formats.
//
// FORMATS:
//   - json     categories, records and stacked series in one document
//   - csv      one line per record, one column per category
//   - parquet  one row per stacked segment (long format)
//
// NaN and missing values are kept distinct where the format allows it:
// JSON writes null, CSV writes "NaN" or an empty field.
//
// =============================================================================

package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/stack"
	"github.com/ginjaninja78/crimechart/internal/types"
)

// Data is what every exporter writes.
type Data struct {
	Records    []types.YearRecord
	Categories []string
	Series     []stack.Series
}

// NewData stacks records in category order.
func NewData(records []types.YearRecord, categories *types.CategorySet) *Data {
	names := categories.Names()
	return &Data{
		Records:    records,
		Categories: names,
		Series:     stack.Stack(records, names),
	}
}

// Write encodes d to w in format.
func Write(w io.Writer, format string, d *Data) error {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		return WriteJSON(w, d)
	case config.FormatCSV:
		return WriteCSV(w, d)
	case config.FormatParquet:
		return WriteParquet(w, d)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteFile creates path and writes d to it in format.
//
// PARAMETERS:
//   - path: The output file. Its directory must exist.
//   - format: One of json, csv or parquet, in any case.
//   - d: The data to write.
//
// RETURNS:
//   - An error if the file cannot be created or encoding fails. The file
//     is removed again in that case.
func WriteFile(path, format string, d *Data) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return Write(file, format, d)
}
