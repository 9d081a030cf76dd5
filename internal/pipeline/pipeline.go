// =============================================================================
// Crime Chart - Pipeline Module
// =============================================================================
//
// This module runs the whole chart pipeline for a single input file, from
// parsing to the written output.
//
// PIPELINE:
//   1. Parse the input table (CSV or XLSX)
//   2. Adapt, transform and check the rows
//   3. Aggregate rows into year records
//   4. Stack the records by category
//   5. Render the chart, or encode an export
//   6. Write the output file
//
// CONCURRENCY:
//   A Job shares nothing with other jobs. RunAll runs several jobs at once,
//   bounded by a limit; a failing job never stops the others.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/crimechart/internal/chart"
	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/export"
	"github.com/ginjaninja78/crimechart/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated file.
	// This is empty if processing failed.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	Stats Stats
}

// Stats contains statistics about the processing.
type Stats struct {
	// Rows is the number of data rows read.
	Rows int

	// Records is the number of year records (bars).
	Records int

	// Categories is the number of distinct categories.
	Categories int

	// Warnings is the number of non-fatal problems found.
	Warnings int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// JOB
// =============================================================================

// Job renders or exports one input file.
type Job struct {
	// InputPath is the CSV or XLSX file to read.
	InputPath string

	Config *config.Config

	// Format overrides Config.Output.Format. Chart formats render a
	// chart; json, csv and parquet write an export.
	Format string

	// OutputPath is the file to write. When empty the name is generated
	// from Config.Output.FilePattern inside Config.Output.Dir.
	OutputPath string

	Logger Logger
}

// Run executes the pipeline for the job.
func (j *Job) Run(ctx context.Context) Result {
	startTime := time.Now()
	result := Result{FilePath: j.InputPath}

	logger := j.Logger
	if logger == nil {
		logger = discardLogger()
	}

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		logger.Error("processing failed", "file", j.InputPath, "error", err)
		return result
	}

	logger.Info("processing file", "file", j.InputPath)

	ds, err := Load(ctx, j.InputPath, j.Config, logger)
	if err != nil {
		return fail(err)
	}
	result.Stats.Rows = len(ds.Rows)
	result.Stats.Records = len(ds.Records)
	result.Stats.Categories = ds.Categories.Len()
	result.Stats.Warnings = len(ds.Warnings)

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	format := j.Format
	if format == "" {
		format = j.Config.Output.Format
	}

	var (
		writeFile func(path string) error
		ext       string
	)
	switch {
	case config.IsChartFormat(format):
		renderer, err := chart.NewRenderer(format)
		if err != nil {
			return fail(err)
		}
		c := chart.New(ds.Records, ds.Categories, j.Config.Chart)
		writeFile = func(path string) error {
			return writeOutput(path, func(w io.Writer) error { return renderer.Render(w, c) })
		}
		ext = renderer.Extension()
	case config.IsExportFormat(format):
		data := export.NewData(ds.Records, ds.Categories)
		writeFile = func(path string) error { return export.WriteFile(path, format, data) }
		ext = format
	default:
		return fail(fmt.Errorf("unsupported output format: %s", format))
	}

	outputPath := j.OutputPath
	if outputPath == "" {
		name := utils.GenerateOutputFileName(j.Config.Output.FilePattern, j.InputPath, ext)
		outputPath = filepath.Join(j.Config.Output.Dir, name)
	}

	if err := utils.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return fail(err)
	}
	if err := writeFile(outputPath); err != nil {
		return fail(fmt.Errorf("failed to write output: %w", err))
	}

	result.OutputFile = outputPath
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	logger.Info("wrote output", "file", j.InputPath, "output", outputPath,
		"records", result.Stats.Records, "elapsed", result.Stats.ProcessingTime)

	return result
}

// writeOutput creates path and fills it with write. A partial file is
// removed on failure.
func writeOutput(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// =============================================================================
// BATCH
// =============================================================================

// RunAll runs jobs with at most limit in flight and returns their results
// in job order.
func RunAll(ctx context.Context, jobs []*Job, limit int) []Result {
	results := make([]Result, len(jobs))
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = job.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Summarize folds results into a processing summary.
func Summarize(results []Result, start, end time.Time) utils.ProcessingSummary {
	summary := utils.ProcessingSummary{
		StartTime:  start,
		EndTime:    end,
		TotalFiles: len(results),
	}
	for _, r := range results {
		if !r.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    r.FilePath,
				ErrorMessage: r.Error.Error(),
			})
			continue
		}
		summary.SuccessfulFiles++
		summary.TotalRows += r.Stats.Rows
		summary.TotalRecords += r.Stats.Records
		summary.Warnings += r.Stats.Warnings
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   r.FilePath,
			OutputFile:  r.OutputFile,
			Rows:        r.Stats.Rows,
			Records:     r.Stats.Records,
			Categories:  r.Stats.Categories,
			Warnings:    r.Stats.Warnings,
			ProcessTime: r.Stats.ProcessingTime,
		})
	}
	return summary
}
