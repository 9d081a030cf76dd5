// =============================================================================
// Crime Chart - JSON Export
// =============================================================================

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// number encodes NaN and infinities as null, which encoding/json rejects.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

type jsonDocument struct {
	Categories []string     `json:"categories"`
	Records    []jsonRecord `json:"records"`
	Series     []jsonSeries `json:"series"`
}

type jsonRecord struct {
	Year   string            `json:"year"`
	Values map[string]number `json:"values"`
}

type jsonSeries struct {
	Key    string      `json:"key"`
	Points []jsonPoint `json:"points"`
}

type jsonPoint struct {
	Year  string `json:"year"`
	Lower number `json:"lower"`
	Upper number `json:"upper"`
	Value number `json:"value"`
}

// WriteJSON writes the categories, the records and the stacked series as
// one indented JSON document.
func WriteJSON(w io.Writer, d *Data) error {
	doc := jsonDocument{
		Categories: append([]string{}, d.Categories...),
		Records:    make([]jsonRecord, 0, len(d.Records)),
		Series:     make([]jsonSeries, 0, len(d.Series)),
	}

	for _, rec := range d.Records {
		values := make(map[string]number, len(rec.Values))
		for k, v := range rec.Values {
			values[k] = number(v)
		}
		doc.Records = append(doc.Records, jsonRecord{Year: rec.Year, Values: values})
	}

	for _, s := range d.Series {
		points := make([]jsonPoint, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, jsonPoint{
				Year:  p.Year,
				Lower: number(p.Lower),
				Upper: number(p.Upper),
				Value: number(p.Value()),
			})
		}
		doc.Series = append(doc.Series, jsonSeries{Key: s.Key, Points: points})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
