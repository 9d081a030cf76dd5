// =============================================================================
// Crime Chart - HTML Renderer
// =============================================================================
//
// This module wraps the SVG chart in a standalone page. A small script
// shows a tooltip with the year, category and count of the bar under the
// pointer.
//
// =============================================================================

package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// HTMLRenderer writes a standalone page holding the SVG chart and a
// tooltip that follows the pointer over the bars.
type HTMLRenderer struct{}

// Extension implements Renderer.
func (r *HTMLRenderer) Extension() string { return "html" }

// Render implements Renderer.
func (r *HTMLRenderer) Render(w io.Writer, c *Chart) error {
	var buf bytes.Buffer
	svgRenderer := &SVGRenderer{OmitTitles: true}
	if err := svgRenderer.Render(&buf, c); err != nil {
		return err
	}

	// Drop the XML prolog; the markup is inlined in the page.
	markup := buf.String()
	if i := strings.Index(markup, "<svg"); i > 0 {
		markup = markup[i:]
	}

	title := c.Settings.Title
	if title == "" {
		title = "Crime statistics"
	}

	err := pageTemplate.Execute(w, struct {
		Title string
		Width int
		SVG   template.HTML
	}{
		Title: title,
		Width: c.Settings.Width,
		SVG:   template.HTML(markup),
	})
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
#dataChart svg { width: 100%; max-width: {{.Width}}px; height: auto; }
.tooltip {
  opacity: 0;
  position: absolute;
  pointer-events: none;
  background-color: lightgray;
  color: black;
  border: solid;
  border-width: 1px;
  border-radius: 2px;
  padding: 5px;
  text-align: center;
}
</style>
</head>
<body>
<div id="dataChart">
{{.SVG}}
<div class="tooltip"></div>
</div>
<script>
(function () {
  var chart = document.getElementById('dataChart');
  var tooltip = chart.querySelector('.tooltip');

  function bold(text) {
    var b = document.createElement('b');
    b.textContent = text;
    return b;
  }

  chart.querySelectorAll('rect.bar').forEach(function (bar) {
    bar.addEventListener('mouseover', function () {
      tooltip.style.opacity = 1;
    });
    bar.addEventListener('mousemove', function (event) {
      tooltip.style.left = (event.pageX + 40) + 'px';
      tooltip.style.top = (event.pageY - 20) + 'px';
      tooltip.replaceChildren(
        bold(bar.dataset.year), document.createElement('br'),
        bold(bar.dataset.category), document.createElement('br'),
        document.createTextNode(bar.dataset.value));
    });
    bar.addEventListener('mouseleave', function () {
      tooltip.style.opacity = 0;
    });
  });
})();
</script>
</body>
</html>
`))
