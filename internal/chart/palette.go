// =============================================================================
// Crime Chart - Palette
// =============================================================================
//
// This module assigns category colours, wrapping around the palette.
//
// =============================================================================

package chart

import (
	"strings"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette assigns colours to categories by index, wrapping around.
type Palette []string

// Color returns the hex colour for category index i.
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		p = config.Category10
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

// Drawing returns the colour for index i as a go-chart colour.
func (p Palette) Drawing(i int) drawing.Color {
	return hexColor(p.Color(i))
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
