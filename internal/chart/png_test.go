package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"testing"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func renderPNG(t *testing.T, c *Chart) ([]byte, image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, (&PNGRenderer{}).Render(&buf, c))
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return buf.Bytes(), img
}

func pixel(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func nrgba(c drawing.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// centre returns the image coordinates of the middle of b.
func centre(l *Layout, b Bar) (int, int) {
	return l.MarginX + b.X + b.W/2, l.MarginY + b.Y + b.H/2
}

func TestPNGRenderDrawsLayout(t *testing.T) {
	c := sampleChart(smallSettings())
	_, img := renderPNG(t, c)

	l := NewLayout(c)
	assert.Equal(t, image.Rect(0, 0, l.FullWidth, l.FullHeight), img.Bounds())

	bars := l.Bars(c)
	require.Len(t, bars, 3)
	for _, b := range bars {
		x, y := centre(l, b)
		assert.Equal(t, nrgba(c.Palette().Drawing(b.Series)), pixel(img, x, y),
			"%s/%s at (%d,%d)", b.Point.Year, b.Point.Category, x, y)
	}

	// Above the 2011 stack is empty plot area.
	top := bars[1]
	x, _ := centre(l, top)
	assert.Equal(t, nrgba(drawing.ColorWhite), pixel(img, x, l.MarginY+top.Y-10))

	// theft is the first category, so it sits at the bottom of the stack.
	assert.Greater(t, bars[0].Y, bars[2].Y)
}

func TestPNGRenderFollowsMagnitudes(t *testing.T) {
	settings := config.Default().Chart
	categories := types.NewCategorySet("theft", "fraud")

	small := New([]types.YearRecord{
		{Year: "2010", Values: map[string]float64{"theft": 1, "fraud": 1}},
		{Year: "2011", Values: map[string]float64{"theft": 2, "fraud": 2}},
	}, categories, settings)
	large := New([]types.YearRecord{
		{Year: "2010", Values: map[string]float64{"theft": 9000, "fraud": 9000}},
		{Year: "2011", Values: map[string]float64{"theft": 10, "fraud": 10}},
	}, categories, settings)

	smallPNG, smallImg := renderPNG(t, small)
	largePNG, largeImg := renderPNG(t, large)
	assert.False(t, bytes.Equal(smallPNG, largePNG))

	l := NewLayout(large)
	bars := l.Bars(large)
	require.NotEmpty(t, bars)

	// 9000 of 20000 over a 400px plot is 180px.
	theft := bars[0]
	assert.Equal(t, "2010", theft.Point.Year)
	assert.Equal(t, 180, theft.H)

	x, y := centre(l, theft)
	assert.Equal(t, nrgba(large.Palette().Drawing(0)), pixel(largeImg, x, y))
	assert.Equal(t, nrgba(drawing.ColorWhite), pixel(smallImg, x, y))
}

func TestPNGRenderFitsManyYears(t *testing.T) {
	var records []types.YearRecord
	for year := 2010; year < 2020; year++ {
		records = append(records, types.YearRecord{
			Year:   strconv.Itoa(year),
			Values: map[string]float64{"theft": 12000},
		})
	}
	c := New(records, types.NewCategorySet("theft"), config.Default().Chart)
	_, img := renderPNG(t, c)

	l := NewLayout(c)
	bars := l.Bars(c)
	require.Len(t, bars, 10)

	last := bars[len(bars)-1]
	assert.LessOrEqual(t, last.X+last.W, l.Width)

	x, y := centre(l, last)
	assert.Equal(t, nrgba(c.Palette().Drawing(0)), pixel(img, x, y))
}

func TestPNGRenderEmpty(t *testing.T) {
	c := New(nil, types.NewCategorySet(), config.Default().Chart)
	data, img := renderPNG(t, c)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	assert.Equal(t, 860, img.Bounds().Dx())
}
