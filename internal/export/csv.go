// =============================================================================
// Crime Chart - CSV Export
// =============================================================================

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes one line per record with a column per category. A
// category the record does not mention is left empty.
func WriteCSV(w io.Writer, d *Data) error {
	cw := csv.NewWriter(w)

	header := append([]string{"year"}, d.Categories...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range d.Records {
		line := make([]string, 0, len(header))
		line = append(line, rec.Year)
		for _, category := range d.Categories {
			v, ok := rec.Get(category)
			if !ok {
				line = append(line, "")
				continue
			}
			line = append(line, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write csv record %q: %w", rec.Year, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
