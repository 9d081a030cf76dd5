// =============================================================================
// Crime Chart - Chart Module
// =============================================================================
//
// This module lays out a stacked bar chart of year records. A Chart holds
// the aggregated records, the category order and the stacked series.
// NewLayout turns it into pixel geometry (a band scale for the years, a
// linear scale for the counts), which every renderer shares.
//
// RENDERERS:
//   - SVGRenderer  standalone SVG with a <title> tooltip per bar
//   - HTMLRenderer page embedding the SVG with a floating tooltip
//   - PNGRenderer  raster image drawn with go-chart
//
// =============================================================================

package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/stack"
	"github.com/ginjaninja78/crimechart/internal/types"
)

// Chart is the data to draw.
type Chart struct {
	Records    []types.YearRecord
	Categories []string
	Series     []stack.Series
	Settings   config.ChartSettings
}

// New stacks records in category order.
func New(records []types.YearRecord, categories *types.CategorySet, settings config.ChartSettings) *Chart {
	names := categories.Names()
	return &Chart{
		Records:    records,
		Categories: names,
		Series:     stack.Stack(records, names),
		Settings:   settings,
	}
}

// Years returns the year label of every record in order.
func (c *Chart) Years() []string {
	years := make([]string, len(c.Records))
	for i, rec := range c.Records {
		years[i] = rec.Year
	}
	return years
}

// Palette returns the configured colours.
func (c *Chart) Palette() Palette {
	return Palette(c.Settings.Palette)
}

// =============================================================================
// LAYOUT
// =============================================================================

// Layout is the pixel geometry of a chart. Coordinates of the plot area
// are relative to its top-left corner, which sits at (MarginX, MarginY).
type Layout struct {
	FullWidth  int
	FullHeight int
	MarginX    int
	MarginY    int

	// Width and Height of the plot area.
	Width  int
	Height int

	X *BandScale
	Y *LinearScale

	YTicks []float64
}

// NewLayout computes the scales for c.
//
// PARAMETERS:
//   - c: The chart. Its settings give the canvas size, the margins and the
//     value domain; with AutoYMax the domain is sized from the stack and
//     extended to nice tick values.
//
// RETURNS:
//   - The layout. An empty chart gets an empty band scale.
func NewLayout(c *Chart) *Layout {
	s := c.Settings
	l := &Layout{
		FullWidth:  s.Width,
		FullHeight: s.Height,
		MarginX:    s.MarginX,
		MarginY:    s.MarginY,
		Width:      s.Width - 2*s.MarginX,
		Height:     s.Height - 2*s.MarginY,
	}

	l.X = NewBandScale(c.Years(), 0, float64(l.Width), s.BandPadding)

	lo, hi := s.YMin, s.YMax
	if s.AutoYMax() {
		lo, hi = yDomain(c.Series, s.YMin)
	}
	l.Y = NewLinearScale(lo, hi, float64(l.Height), 0)
	if s.AutoYMax() {
		l.Y.Nice(s.YTicks)
	}
	l.YTicks = l.Y.Ticks(s.YTicks)
	return l
}

// yDomain sizes the value axis from the stacked extent.
func yDomain(series []stack.Series, floor float64) (float64, float64) {
	lo, hi, ok := stack.Extent(series)
	if !ok {
		return floor, floor + 1
	}
	lo = math.Min(lo, floor)
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// Bar is a drawable segment in plot-area pixels.
type Bar struct {
	Point  stack.Point
	Series int
	X, Y   int
	W, H   int
	Color  string
}

// Bars returns one bar per finite, non-empty point, series by series.
//
// RETURNS:
//   - Bars in plot-area pixels. Heights are never negative, and a series
//     drawn later sits above the earlier ones.
func (l *Layout) Bars(c *Chart) []Bar {
	palette := c.Palette()
	w := int(math.Round(l.X.Bandwidth()))

	var bars []Bar
	for _, s := range c.Series {
		color := palette.Color(s.Index)
		for _, p := range s.Points {
			if !p.Finite() || p.Value() == 0 {
				continue
			}
			x, ok := l.X.Position(p.Year)
			if !ok {
				continue
			}
			y0 := int(math.Round(l.Y.Map(p.Lower)))
			y1 := int(math.Round(l.Y.Map(p.Upper)))
			top, h := y1, y0-y1
			if h < 0 {
				top, h = y0, -h
			}
			bars = append(bars, Bar{
				Point:  p,
				Series: s.Index,
				X:      int(math.Round(x)),
				Y:      top,
				W:      w,
				H:      h,
				Color:  color,
			})
		}
	}
	return bars
}

// LegendEntry is one row of the legend, top to bottom.
type LegendEntry struct {
	Category string
	Color    string
}

// Legend lists categories in reverse order so the top entry matches the
// top segment of the stack.
func (c *Chart) Legend() []LegendEntry {
	palette := c.Palette()
	entries := make([]LegendEntry, 0, len(c.Categories))
	for i := len(c.Categories) - 1; i >= 0; i-- {
		entries = append(entries, LegendEntry{Category: c.Categories[i], Color: palette.Color(i)})
	}
	return entries
}

// FormatValue renders a count the way the tooltip shows it.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// RENDERERS
// =============================================================================

// Renderer writes a chart in one output format.
type Renderer interface {
	Render(w io.Writer, c *Chart) error

	// Extension is the file extension of the output, without the dot.
	Extension() string
}

// NewRenderer returns the renderer for format.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case config.FormatSVG:
		return &SVGRenderer{}, nil
	case config.FormatHTML:
		return &HTMLRenderer{}, nil
	case config.FormatPNG:
		return &PNGRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported chart format: %s", format)
	}
}
