// =============================================================================
// Crime Chart - Configuration Module
// =============================================================================
//
// This module loads the chart configuration from a YAML file and fills in
// defaults for every unset option. By default the chart is an 860x500
// view box with 50px margins, a fixed y domain of [0, 20000] and the
// category10 palette.
//
// CONFIGURATION SECTIONS:
//   input            : CSV/XLSX reading options
//   fields           : which columns hold the year, category and value
//   strict           : reject malformed rows instead of propagating NaN
//   transformations  : label rewriting rules applied before aggregation
//   chart            : geometry, scales, palette, legend
//   output           : output directory, format, file naming, concurrency
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the renderers and exporters.
const (
	FormatSVG     = "svg"
	FormatHTML    = "html"
	FormatPNG     = "png"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// DefaultConfigFile is looked up when --config is not given.
const DefaultConfigFile = "crimechart.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config is the full application configuration.
type Config struct {
	Input           InputSettings        `yaml:"input"`
	Fields          FieldSettings        `yaml:"fields"`
	Strict          bool                 `yaml:"strict"`
	Transformations []TransformationRule `yaml:"transformations"`
	Chart           ChartSettings        `yaml:"chart"`
	Output          OutputSettings       `yaml:"output"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `yaml:"log_level"`
}

// InputSettings contains settings for reading the source table.
type InputSettings struct {
	// Delimiter separates CSV fields. Accepts a single character or one of
	// the names "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows. Multi-row headers are
	// merged column by column.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row where data begins.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`

	// Sheet selects the worksheet for XLSX inputs. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// FieldSettings names the columns the row adapter reads.
type FieldSettings struct {
	Year     string `yaml:"year"`
	Category string `yaml:"category"`
	Value    string `yaml:"value"`
}

// TransformationRule rewrites one field before aggregation.
type TransformationRule struct {
	// Field is "year" or "category".
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is one of:
	//   - "trim"
	//   - "uppercase"
	//   - "lowercase"
	//   - "prepend_string" : Value is prepended
	//   - "append_string"  : Value is appended
	//   - "replace"        : Find is replaced with Value
	//   - "lookup"         : LookupTable maps the whole label
	Type string `yaml:"type"`

	Value       string            `yaml:"value"`
	Find        string            `yaml:"find,omitempty"`
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// ChartSettings holds the chart geometry.
type ChartSettings struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	MarginX int `yaml:"margin_x"`
	MarginY int `yaml:"margin_y"`

	// BandPadding is the inner and outer padding of the year bands, as a
	// fraction of the band step.
	// Default: 0.2
	BandPadding float64 `yaml:"band_padding"`

	// YMin and YMax fix the value axis domain.
	// Default: [0, 20000]
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`

	// AutoScale sizes the value axis from the stacked extent, rounded out
	// to nice tick values. A negative YMax has the same effect.
	AutoScale bool `yaml:"auto_scale"`

	// YTicks is the approximate number of intervals on the value axis.
	// Default: 10
	YTicks int `yaml:"y_ticks"`

	Title string `yaml:"title"`

	// Palette lists fill colours as hex strings. Categories take colours
	// in insertion order, wrapping around.
	// Default: category10
	Palette []string `yaml:"palette"`

	// HideLegend disables the legend.
	HideLegend bool `yaml:"hide_legend"`
}

// OutputSettings controls where and how results are written.
type OutputSettings struct {
	// Dir is the directory where output files are placed.
	// Default: "./output"
	Dir string `yaml:"dir"`

	// Format is the chart format: "svg", "html" or "png".
	// Default: "svg"
	Format string `yaml:"format"`

	// FilePattern names output files. Placeholders:
	//   {name}      - input file name without extension
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - a random UUID
	// The format extension is appended when missing.
	// Default: "{name}"
	FilePattern string `yaml:"file_pattern"`

	// MaxConcurrency is the maximum number of inputs rendered at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`
}

// Category10 is the d3 ten-colour categorical palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file, applies defaults and
// validates the result.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ","
	}
	if cfg.Input.HeaderRows == 0 {
		cfg.Input.HeaderRows = 1
	}
	if cfg.Input.DataStartRow == 0 {
		cfg.Input.DataStartRow = cfg.Input.HeaderRows + 1
	}

	if cfg.Fields.Year == "" {
		cfg.Fields.Year = "year"
	}
	if cfg.Fields.Category == "" {
		cfg.Fields.Category = "level_2"
	}
	if cfg.Fields.Value == "" {
		cfg.Fields.Value = "value"
	}

	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 860
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 500
	}
	if cfg.Chart.MarginX == 0 {
		cfg.Chart.MarginX = 50
	}
	if cfg.Chart.MarginY == 0 {
		cfg.Chart.MarginY = 50
	}
	if cfg.Chart.BandPadding == 0 {
		cfg.Chart.BandPadding = 0.2
	}
	if cfg.Chart.YMax == 0 {
		cfg.Chart.YMax = 20000
	}
	if cfg.Chart.YTicks == 0 {
		cfg.Chart.YTicks = 10
	}
	if len(cfg.Chart.Palette) == 0 {
		cfg.Chart.Palette = append([]string(nil), Category10...)
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatSVG
	}
	if cfg.Output.FilePattern == "" {
		cfg.Output.FilePattern = "{name}"
	}
	if cfg.Output.MaxConcurrency == 0 {
		cfg.Output.MaxConcurrency = 4
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks option ranges and enumerations.
func (c *Config) Validate() error {
	if c.Input.HeaderRows < 1 {
		return fmt.Errorf("input.header_rows must be at least 1")
	}
	if c.Input.DataStartRow <= c.Input.HeaderRows {
		return fmt.Errorf("input.data_start_row (%d) must come after the header rows (%d)", c.Input.DataStartRow, c.Input.HeaderRows)
	}

	ch := c.Chart
	if ch.Width <= 2*ch.MarginX || ch.Height <= 2*ch.MarginY {
		return fmt.Errorf("chart size %dx%d leaves no room inside margins %d/%d", ch.Width, ch.Height, ch.MarginX, ch.MarginY)
	}
	if ch.BandPadding < 0 || ch.BandPadding >= 1 {
		return fmt.Errorf("chart.band_padding must be in [0, 1), got %g", ch.BandPadding)
	}
	if !ch.AutoYMax() && ch.YMax <= ch.YMin {
		return fmt.Errorf("chart.y_max (%g) must be greater than chart.y_min (%g)", ch.YMax, ch.YMin)
	}

	for _, rule := range c.Transformations {
		switch strings.ToLower(rule.Field) {
		case "year", "category":
		default:
			return fmt.Errorf("transformation field must be year or category, got %q", rule.Field)
		}
	}

	if !IsChartFormat(c.Output.Format) {
		return fmt.Errorf("output.format must be svg, html or png, got %q", c.Output.Format)
	}
	if c.Output.MaxConcurrency < 1 {
		return fmt.Errorf("output.max_concurrency must be at least 1")
	}

	if !slices.Contains(LogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("log_level must be one of %s, got %q", strings.Join(LogLevels, ", "), c.LogLevel)
	}
	return nil
}

// LogLevels lists the accepted log_level values, quietest last.
var LogLevels = []string{"debug", "info", "warn", "error"}

// IsChartFormat reports whether format names a chart renderer.
func IsChartFormat(format string) bool {
	switch format {
	case FormatSVG, FormatHTML, FormatPNG:
		return true
	}
	return false
}

// IsExportFormat reports whether format names a data exporter.
func IsExportFormat(format string) bool {
	switch format {
	case FormatJSON, FormatCSV, FormatParquet:
		return true
	}
	return false
}

// AutoYMax reports whether the value axis is sized from the data.
func (c ChartSettings) AutoYMax() bool {
	return c.AutoScale || c.YMax < 0
}
