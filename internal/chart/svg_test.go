package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderSVG(t *testing.T, r *SVGRenderer, c *Chart) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, c))
	return buf.String()
}

func TestSVGRender(t *testing.T) {
	out := renderSVG(t, &SVGRenderer{}, sampleChart(smallSettings()))

	assert.Contains(t, out, `viewBox="0 0 860 500"`)
	assert.Contains(t, out, `transform="translate(50,50)"`)
	assert.Equal(t, 3, strings.Count(out, `class="bar"`))
	assert.Equal(t, 3, strings.Count(out, "<title>"))
	assert.Contains(t, out, `data-year="2010"`)
	assert.Contains(t, out, `data-category="assault"`)
	assert.Contains(t, out, `data-value="2"`)
	assert.Contains(t, out, `fill="#1f77b4"`)

	// Legend text sits inside the plot area.
	assert.Contains(t, out, `class="legend"`)
	assert.Contains(t, out, ">fraud</text>")
	assert.Less(t, strings.Index(out, ">fraud</text>"), strings.Index(out, ">theft</text>"))
}

func TestSVGRenderAxisLabels(t *testing.T) {
	out := renderSVG(t, &SVGRenderer{}, sampleChart(config.Default().Chart))

	assert.Contains(t, out, ">2010</text>")
	assert.Contains(t, out, ">2011</text>")
	assert.Contains(t, out, ">0</text>")
	assert.Contains(t, out, ">20,000</text>")
}

func TestSVGRenderEmpty(t *testing.T) {
	c := New([]types.YearRecord{}, types.NewCategorySet(), config.Default().Chart)
	out := renderSVG(t, &SVGRenderer{}, c)

	assert.Contains(t, out, `class="axis axis-x"`)
	assert.Contains(t, out, `class="axis axis-y"`)
	assert.NotContains(t, out, `class="bar"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestSVGRenderOptions(t *testing.T) {
	s := smallSettings()
	s.HideLegend = true
	s.Title = "Crimes <by> year"

	out := renderSVG(t, &SVGRenderer{OmitTitles: true}, sampleChart(s))
	assert.NotContains(t, out, "<title>")
	assert.NotContains(t, out, `class="legend"`)
	assert.Contains(t, out, "Crimes &lt;by&gt; year")
	assert.Equal(t, 3, strings.Count(out, `class="bar"`))
}

func TestSVGRenderEscapesLabels(t *testing.T) {
	records := []types.YearRecord{
		{Year: "2010", Values: map[string]float64{`Theft & "robbery"`: 4}},
	}
	c := New(records, types.NewCategorySet(`Theft & "robbery"`), smallSettings())
	out := renderSVG(t, &SVGRenderer{}, c)

	assert.Contains(t, out, `data-category="Theft &amp; &#34;robbery&#34;"`)
	assert.NotContains(t, out, `"robbery""`)
}
