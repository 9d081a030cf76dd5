package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const crimesCSV = `year,level_1,level_2,value
2011,Total,Theft,5
2011,Total,Assault,2
2012,Total,Theft,7
2012,Total,Fraud,4
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	return cfg
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "crimes.csv", crimesCSV)

	ds, err := Load(context.Background(), path, config.Default(), nil)
	require.NoError(t, err)

	assert.Len(t, ds.Rows, 4)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, "2012", ds.Records[1].Year)
	assert.Equal(t, []string{"Theft", "Assault", "Fraud"}, ds.Categories.Names())
	assert.Empty(t, ds.Warnings)
}

func TestLoadTransformsLabels(t *testing.T) {
	path := writeFile(t, t.TempDir(), "crimes.csv", crimesCSV)
	cfg := config.Default()
	cfg.Transformations = []config.TransformationRule{
		{Field: "category", Actions: []config.TransformationAction{{Type: "lowercase"}}},
	}

	ds, err := Load(context.Background(), path, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"theft", "assault", "fraud"}, ds.Categories.Names())
}

func TestLoadNonContiguousYears(t *testing.T) {
	path := writeFile(t, t.TempDir(), "crimes.csv", "year,level_2,value\n"+
		"2011,Theft,5\n"+
		"2012,Theft,7\n"+
		"2011,Fraud,1\n")

	ds, err := Load(context.Background(), path, config.Default(), nil)
	require.NoError(t, err)

	assert.Len(t, ds.Records, 3)
	require.Len(t, ds.Warnings, 1)
	assert.Equal(t, "2011", ds.Warnings[0].Value)
	assert.Equal(t, 4, ds.Warnings[0].RowNumber)
}

func TestLoadStrict(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Strict = true

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "bad value", content: "year,level_2,value\n2011,Theft,abc\n", wantErr: validation.ErrInvalidValue},
		{name: "missing label", content: "year,level_2,value\n2011,,3\n", wantErr: validation.ErrInvalidRow},
		{name: "missing column", content: "year,value\n2011,3\n", wantErr: validation.ErrInvalidRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".csv", tt.content)
			_, err := Load(context.Background(), path, cfg, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	// The same bad value is NaN in lenient mode.
	path := writeFile(t, dir, "lenient.csv", "year,level_2,value\n2011,Theft,abc\n")
	ds, err := Load(context.Background(), path, config.Default(), nil)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"year", "level_2", "value"},
		{"2011", "Theft", 5},
		{"2012", "Theft", 6},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "crimes.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := Load(context.Background(), path, config.Default(), nil)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 2)
	assert.Equal(t, 6.0, ds.Records[1].Value("Theft"))
}

func TestReadTableUnsupported(t *testing.T) {
	_, err := ReadTable("crimes.txt", config.Default().Input)
	assert.Error(t, err)
}

func TestJobRun(t *testing.T) {
	cfg := testConfig(t)
	input := writeFile(t, t.TempDir(), "crimes.csv", crimesCSV)

	tests := []struct {
		format string
		check  func(t *testing.T, data []byte)
	}{
		{format: "svg", check: func(t *testing.T, data []byte) {
			assert.Contains(t, string(data), "<svg")
			assert.Equal(t, 4, strings.Count(string(data), `class="bar"`))
		}},
		{format: "html", check: func(t *testing.T, data []byte) {
			assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
		}},
		{format: "png", check: func(t *testing.T, data []byte) {
			assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
		}},
		{format: "json", check: func(t *testing.T, data []byte) {
			var doc map[string]any
			require.NoError(t, json.Unmarshal(data, &doc))
			assert.Len(t, doc["records"], 2)
		}},
		{format: "csv", check: func(t *testing.T, data []byte) {
			assert.Equal(t, "year,Theft,Assault,Fraud\n2011,5,2,\n2012,7,,4\n", string(data))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			job := &Job{InputPath: input, Config: cfg, Format: tt.format}
			result := job.Run(context.Background())
			require.True(t, result.Success, "error: %v", result.Error)

			assert.Equal(t, filepath.Join(cfg.Output.Dir, "crimes."+tt.format), result.OutputFile)
			assert.Equal(t, 4, result.Stats.Rows)
			assert.Equal(t, 2, result.Stats.Records)
			assert.Equal(t, 3, result.Stats.Categories)

			data, err := os.ReadFile(result.OutputFile)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestJobRunExplicitOutput(t *testing.T) {
	cfg := testConfig(t)
	input := writeFile(t, t.TempDir(), "crimes.csv", crimesCSV)
	output := filepath.Join(t.TempDir(), "nested", "chart.svg")

	result := (&Job{InputPath: input, Config: cfg, OutputPath: output}).Run(context.Background())
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, output, result.OutputFile)
	assert.FileExists(t, output)
}

func TestJobRunFailures(t *testing.T) {
	cfg := testConfig(t)
	input := writeFile(t, t.TempDir(), "crimes.csv", crimesCSV)

	result := (&Job{InputPath: filepath.Join(t.TempDir(), "missing.csv"), Config: cfg}).Run(context.Background())
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.Empty(t, result.OutputFile)

	result = (&Job{InputPath: input, Config: cfg, Format: "gif"}).Run(context.Background())
	assert.False(t, result.Success)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result = (&Job{InputPath: input, Config: cfg}).Run(ctx)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, context.Canceled)
}

func TestJobRunEmptyPNGLeavesNoFile(t *testing.T) {
	cfg := testConfig(t)
	input := writeFile(t, t.TempDir(), "empty.csv", "year,level_2,value\n")

	result := (&Job{InputPath: input, Config: cfg, Format: "png"}).Run(context.Background())
	require.False(t, result.Success)
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, "empty.png"))

	result = (&Job{InputPath: input, Config: cfg, Format: "svg"}).Run(context.Background())
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, 0, result.Stats.Records)
}

func TestRunAll(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	good1 := writeFile(t, dir, "a.csv", crimesCSV)
	good2 := writeFile(t, dir, "c.csv", crimesCSV)

	jobs := []*Job{
		{InputPath: good1, Config: cfg},
		{InputPath: filepath.Join(dir, "b.csv"), Config: cfg},
		{InputPath: good2, Config: cfg},
	}

	start := time.Now()
	results := RunAll(context.Background(), jobs, 2)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, results[2].Success)
	for i, r := range results {
		assert.Equal(t, jobs[i].InputPath, r.FilePath)
	}

	summary := Summarize(results, start, time.Now())
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 2, summary.SuccessfulFiles)
	assert.Equal(t, 1, summary.FailedFiles)
	assert.Equal(t, 8, summary.TotalRows)
	require.Len(t, summary.FailedFilesList, 1)
	assert.Equal(t, jobs[1].InputPath, summary.FailedFilesList[0].InputFile)
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"", "debug", "INFO", "warn", "error"} {
		_, err := ParseLevel(level)
		assert.NoError(t, err, level)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)

	// Every level the config accepts parses, and nothing else does.
	for _, level := range config.LogLevels {
		_, err := ParseLevel(level)
		assert.NoError(t, err, level)
	}
	_, err = ParseLevel("warning")
	assert.Error(t, err)
	cfg := config.Default()
	cfg.LogLevel = "warning"
	assert.Error(t, cfg.Validate())

	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "file", "a.csv")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "file=a.csv")
}
