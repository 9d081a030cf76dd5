// =============================================================================
// Crime Chart - SVG Renderer
// =============================================================================
//
// This module draws the shared Layout as a standalone SVG document: title,
// axes, one group of bars per category and the legend.
//
// =============================================================================

package chart

import (
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/dustin/go-humanize"
)

const (
	tickSize     = 6
	tickPadding  = 3
	legendSwatch = 20
	legendStep   = 22
)

// SVGRenderer draws the chart as SVG.
type SVGRenderer struct {
	// OmitTitles leaves out the <title> of each bar, for pages that bring
	// their own tooltip.
	OmitTitles bool
}

// Extension implements Renderer.
func (r *SVGRenderer) Extension() string { return "svg" }

// Render implements Renderer.
func (r *SVGRenderer) Render(w io.Writer, c *Chart) error {
	l := NewLayout(c)
	canvas := svg.New(w)

	canvas.Startview(l.FullWidth, l.FullHeight, 0, 0, l.FullWidth, l.FullHeight)
	if c.Settings.Title != "" {
		canvas.Text(l.FullWidth/2, l.MarginY/2, c.Settings.Title,
			`text-anchor="middle"`, `font-family="sans-serif"`, `font-size="16"`)
	}

	canvas.Translate(l.MarginX, l.MarginY)
	r.bottomAxis(canvas, l)
	r.leftAxis(canvas, l)
	r.bars(canvas, l, c)
	if !c.Settings.HideLegend {
		r.legend(canvas, l, c)
	}
	canvas.Gend()

	canvas.End()
	return nil
}

// bottomAxis draws the year axis along the bottom of the plot area with no
// outer ticks.
func (r *SVGRenderer) bottomAxis(canvas *svg.SVG, l *Layout) {
	canvas.Group(fmt.Sprintf(`transform="translate(0,%d)"`, l.Height),
		`fill="none"`, `font-size="10"`, `font-family="sans-serif"`, `text-anchor="middle"`, `class="axis axis-x"`)
	canvas.Path(fmt.Sprintf("M0.5,0.5H%d.5", l.Width), `class="domain"`, `stroke="currentColor"`)

	half := l.X.Bandwidth() / 2
	for _, year := range l.X.Domain() {
		pos, _ := l.X.Position(year)
		x := int(math.Round(pos + half))
		canvas.Gtransform(fmt.Sprintf("translate(%d,0)", x))
		canvas.Line(0, 0, 0, tickSize, `stroke="currentColor"`)
		canvas.Text(0, tickSize+tickPadding, year, `fill="currentColor"`, `dy="0.71em"`)
		canvas.Gend()
	}
	canvas.Gend()
}

// leftAxis draws the value axis with outer ticks at both ends.
func (r *SVGRenderer) leftAxis(canvas *svg.SVG, l *Layout) {
	canvas.Group(`fill="none"`, `font-size="10"`, `font-family="sans-serif"`, `text-anchor="end"`, `class="axis axis-y"`)
	canvas.Path(fmt.Sprintf("M-%d,%d.5H0.5V0.5H-%d", tickSize, l.Height, tickSize), `class="domain"`, `stroke="currentColor"`)

	for _, v := range l.YTicks {
		y := int(math.Round(l.Y.Map(v)))
		canvas.Gtransform(fmt.Sprintf("translate(0,%d)", y))
		canvas.Line(-tickSize, 0, 0, 0, `stroke="currentColor"`)
		canvas.Text(-(tickSize + tickPadding), 0, humanize.Commaf(v), `fill="currentColor"`, `dy="0.32em"`)
		canvas.Gend()
	}
	canvas.Gend()
}

// bars draws one group per series, filled with the series colour.
func (r *SVGRenderer) bars(canvas *svg.SVG, l *Layout, c *Chart) {
	bars := l.Bars(c)

	canvas.Group(`class="bars"`)
	for _, s := range c.Series {
		canvas.Group(fmt.Sprintf(`fill="%s"`, c.Palette().Color(s.Index)), attr("data-category", s.Key))
		for _, b := range bars {
			if b.Series != s.Index {
				continue
			}
			value := FormatValue(b.Point.Value())
			attrs := []string{
				`class="bar"`,
				attr("data-year", b.Point.Year),
				attr("data-category", b.Point.Category),
				attr("data-value", value),
			}
			if r.OmitTitles {
				canvas.Rect(b.X, b.Y, b.W, b.H, attrs...)
				continue
			}
			canvas.Group()
			canvas.Title(fmt.Sprintf("%s\n%s\n%s", b.Point.Year, b.Point.Category, value))
			canvas.Rect(b.X, b.Y, b.W, b.H, attrs...)
			canvas.Gend()
		}
		canvas.Gend()
	}
	canvas.Gend()
}

// legend draws the category key in the top-right corner of the plot area.
func (r *SVGRenderer) legend(canvas *svg.SVG, l *Layout, c *Chart) {
	canvas.Group(`class="legend"`, `font-size="10"`, `font-family="sans-serif"`)
	for i, entry := range c.Legend() {
		canvas.Gtransform(fmt.Sprintf("translate(0,%d)", i*legendStep))
		canvas.Rect(l.Width-legendSwatch, 0, legendSwatch, legendSwatch, fmt.Sprintf(`fill="%s"`, entry.Color))
		canvas.Text(l.Width-legendSwatch-5, legendSwatch/2, entry.Category, `dy=".35em"`, `text-anchor="end"`)
		canvas.Gend()
	}
	canvas.Gend()
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}
