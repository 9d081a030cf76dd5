package chart

import (
	"math"
	"testing"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart(settings config.ChartSettings) *Chart {
	records := []types.YearRecord{
		{Year: "2010", Values: map[string]float64{"theft": 5, "assault": 2}},
		{Year: "2011", Values: map[string]float64{"theft": 7, "fraud": math.NaN()}},
	}
	return New(records, types.NewCategorySet("theft", "assault", "fraud"), settings)
}

func smallSettings() config.ChartSettings {
	s := config.Default().Chart
	s.YMax = 10
	return s
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(sampleChart(config.Default().Chart))

	assert.Equal(t, 860, l.FullWidth)
	assert.Equal(t, 500, l.FullHeight)
	assert.Equal(t, 760, l.Width)
	assert.Equal(t, 400, l.Height)
	assert.Equal(t, []string{"2010", "2011"}, l.X.Domain())

	lo, hi := l.Y.Domain()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 20000.0, hi)
	assert.NotEmpty(t, l.YTicks)
}

func TestNewLayoutAutoScale(t *testing.T) {
	s := config.Default().Chart
	s.AutoScale = true
	l := NewLayout(sampleChart(s))

	lo, hi := l.Y.Domain()
	assert.Equal(t, 0.0, lo)
	assert.GreaterOrEqual(t, hi, 7.0)
	assert.Less(t, hi, 20.0)

	empty := New(nil, types.NewCategorySet(), s)
	lo, hi = NewLayout(empty).Y.Domain()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestLayoutBars(t *testing.T) {
	c := sampleChart(smallSettings())
	bars := NewLayout(c).Bars(c)

	// assault is absent in 2011 and fraud is NaN, so neither is drawn.
	require.Len(t, bars, 3)

	tests := []struct {
		year, category string
		x, y, w, h     int
		color          string
	}{
		{year: "2010", category: "theft", x: 69, y: 200, w: 276, h: 200, color: "#1f77b4"},
		{year: "2011", category: "theft", x: 415, y: 120, w: 276, h: 280, color: "#1f77b4"},
		{year: "2010", category: "assault", x: 69, y: 120, w: 276, h: 80, color: "#ff7f0e"},
	}
	for i, tt := range tests {
		b := bars[i]
		assert.Equal(t, tt.year, b.Point.Year)
		assert.Equal(t, tt.category, b.Point.Category)
		assert.Equal(t, tt.x, b.X, "x of %s/%s", tt.year, tt.category)
		assert.Equal(t, tt.y, b.Y, "y of %s/%s", tt.year, tt.category)
		assert.Equal(t, tt.w, b.W)
		assert.Equal(t, tt.h, b.H, "height of %s/%s", tt.year, tt.category)
		assert.Equal(t, tt.color, b.Color)
	}
}

func TestLegend(t *testing.T) {
	c := sampleChart(smallSettings())
	assert.Equal(t, []LegendEntry{
		{Category: "fraud", Color: "#2ca02c"},
		{Category: "assault", Color: "#ff7f0e"},
		{Category: "theft", Color: "#1f77b4"},
	}, c.Legend())
}

func TestPaletteWraps(t *testing.T) {
	p := Palette{"#000000", "#ffffff"}
	assert.Equal(t, "#000000", p.Color(0))
	assert.Equal(t, "#ffffff", p.Color(1))
	assert.Equal(t, "#000000", p.Color(2))

	var empty Palette
	assert.Equal(t, config.Category10[3], empty.Color(13))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "5", FormatValue(5))
	assert.Equal(t, "2.5", FormatValue(2.5))
	assert.Equal(t, "12000", FormatValue(12000))
}

func TestNewRenderer(t *testing.T) {
	for _, format := range []string{"svg", "html", "png", "SVG"} {
		r, err := NewRenderer(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, r.Extension())
	}

	_, err := NewRenderer("gif")
	assert.Error(t, err)
}
