// =============================================================================
// Crime Chart - PNG Renderer
// =============================================================================
//
// This module rasterizes a chart with go-chart's PNG renderer. It draws the
// shared Layout rather than a go-chart StackedBarChart, so the image carries
// the same geometry as the SVG: the configured value domain, absolute
// counts and categories stacked bottom to top.
//
// DRAW ORDER:
//   1. White background and title
//   2. Year axis and value axis with tick labels
//   3. Bar segments
//   4. Legend
//
// =============================================================================

package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	axisFontSize  = 10.0
	titleFontSize = 16.0
)

// PNGRenderer rasterizes the chart.
type PNGRenderer struct{}

// Extension implements Renderer.
func (r *PNGRenderer) Extension() string { return "png" }

// Render implements Renderer.
//
// PARAMETERS:
//   - w: Receives the encoded PNG.
//   - c: The chart. An empty chart still draws its axes.
//
// RETURNS:
//   - An error if the font cannot be loaded or the image cannot be encoded.
func (r *PNGRenderer) Render(w io.Writer, c *Chart) error {
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	l := NewLayout(c)
	rr, err := gochart.PNG(l.FullWidth, l.FullHeight)
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	rr.SetDPI(gochart.DefaultDPI)

	p := &raster{
		r: rr,
		l: l,
		text: gochart.Style{
			Font:      font,
			FontSize:  axisFontSize,
			FontColor: drawing.ColorBlack,
		},
	}

	p.box(0, 0, l.FullWidth, l.FullHeight, drawing.ColorWhite)
	if c.Settings.Title != "" {
		title := p.text
		title.FontSize = titleFontSize
		p.label(c.Settings.Title, l.FullWidth/2, l.MarginY/2, alignCenter, title)
	}

	p.bottomAxis()
	p.leftAxis()
	p.bars(c)
	if !c.Settings.HideLegend {
		p.legend(c)
	}

	if err := rr.Save(w); err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	return nil
}

// =============================================================================
// RASTER DRAWING
// =============================================================================

type align int

const (
	alignCenter align = iota
	alignRight
)

// raster draws a Layout onto a go-chart renderer. Plot-area coordinates
// are shifted by the margins here.
type raster struct {
	r    gochart.Renderer
	l    *Layout
	text gochart.Style
}

var axisStyle = gochart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 1}

func (p *raster) box(left, top, width, height int, fill drawing.Color) {
	gochart.Draw.Box(p.r, gochart.Box{
		Top:    top,
		Left:   left,
		Right:  left + width,
		Bottom: top + height,
	}, gochart.Style{FillColor: fill})
}

func (p *raster) line(x0, y0, x1, y1 int) {
	axisStyle.WriteDrawingOptionsToRenderer(p.r)
	defer p.r.ResetStyle()

	p.r.MoveTo(x0, y0)
	p.r.LineTo(x1, y1)
	p.r.Stroke()
}

// label draws text vertically centred on y.
func (p *raster) label(text string, x, y int, a align, style gochart.Style) {
	size := gochart.Draw.MeasureText(p.r, text, style)
	switch a {
	case alignCenter:
		x -= size.Width() / 2
	case alignRight:
		x -= size.Width()
	}
	gochart.Draw.Text(p.r, text, x, y+size.Height()/2, style)
}

func (p *raster) bottomAxis() {
	l := p.l
	y := l.MarginY + l.Height
	p.line(l.MarginX, y, l.MarginX+l.Width, y)

	half := l.X.Bandwidth() / 2
	for _, year := range l.X.Domain() {
		pos, _ := l.X.Position(year)
		x := l.MarginX + int(math.Round(pos+half))
		p.line(x, y, x, y+tickSize)
		p.label(year, x, y+tickSize+tickPadding+int(axisFontSize)/2, alignCenter, p.text)
	}
}

func (p *raster) leftAxis() {
	l := p.l
	p.line(l.MarginX, l.MarginY, l.MarginX, l.MarginY+l.Height)

	for _, v := range l.YTicks {
		y := l.MarginY + int(math.Round(l.Y.Map(v)))
		p.line(l.MarginX-tickSize, y, l.MarginX, y)
		p.label(humanize.Commaf(v), l.MarginX-tickSize-tickPadding, y, alignRight, p.text)
	}
}

func (p *raster) bars(c *Chart) {
	palette := c.Palette()
	for _, b := range p.l.Bars(c) {
		p.box(p.l.MarginX+b.X, p.l.MarginY+b.Y, b.W, b.H, palette.Drawing(b.Series))
	}
}

// legend mirrors the SVG legend in the top-right corner of the plot area.
func (p *raster) legend(c *Chart) {
	l := p.l
	right := l.MarginX + l.Width
	for i, entry := range c.Legend() {
		top := l.MarginY + i*legendStep
		p.box(right-legendSwatch, top, legendSwatch, legendSwatch, hexColor(entry.Color))
		p.label(entry.Category, right-legendSwatch-5, top+legendSwatch/2, alignRight, p.text)
	}
}
