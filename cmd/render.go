// =============================================================================
// Crime Chart - Render Command
// =============================================================================
//
// This file defines the 'render' command, the main command of the tool. It
// draws one stacked bar chart per input file.
//
// COMMAND USAGE:
//   crimechart render [path...] [flags]
//
// Each path may be a CSV/XLSX file or a directory, which is searched
// recursively. With no path the current directory is used. The output
// directory is never searched unless it is named explicitly, and inputs
// that would share an output name are renamed after their parent
// directory.
//
// PROCESSING PIPELINE:
//   1. Load configuration (file, environment, flags)
//   2. Discover input files
//   3. Render every file, several at once
//   4. Print a line per file and a summary
//   5. Optionally write the summary to the output directory
//
// A failure in one file never stops the others, but the command exits
// non-zero if any file failed.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/ginjaninja78/crimechart/internal/chart"
	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/pipeline"
	"github.com/ginjaninja78/crimechart/pkg/utils"
	"github.com/spf13/cobra"
)

// summaryLog writes processing_summary_<time>.txt after a run.
var summaryLog bool

var renderCmd = &cobra.Command{
	Use:   "render [path...]",
	Short: "Render stacked bar charts from CSV or XLSX files",
	Long: `The render command draws one stacked bar chart per input file. Years
become bars in order of first appearance; categories become segments,
stacked bottom to top in order of first appearance.

Processing is done concurrently. Errors in one file do not affect the
processing of others.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, "format", "out-dir", "file-pattern", "concurrency",
			"strict", "y-max", "auto-scale", "title")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		return renderAll(cmd.Context(), cmd.OutOrStdout(), cfg, logger, args)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("format", "f", "", "Chart format: svg, html or png")
	renderCmd.Flags().StringP("out-dir", "o", "", "Directory for the rendered charts")
	renderCmd.Flags().String("file-pattern", "", "Output file name pattern ({name}, {timestamp}, {date}, {uuid})")
	renderCmd.Flags().Int("concurrency", 0, "Maximum number of files rendered at once")
	renderCmd.Flags().Bool("strict", false, "Reject rows with missing labels or malformed values")
	renderCmd.Flags().Float64("y-max", 0, "Upper bound of the value axis (negative sizes it from the data)")
	renderCmd.Flags().Bool("auto-scale", false, "Size the value axis from the data")
	renderCmd.Flags().String("title", "", "Chart title")
	renderCmd.Flags().BoolVar(&summaryLog, "summary-log", false, "Write a processing summary to the output directory")
}

// renderAll renders every input found under paths and reports to w.
func renderAll(ctx context.Context, w io.Writer, cfg *config.Config, logger pipeline.Logger, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	if len(paths) == 0 {
		paths = []string{"."}
	}

	inputs, err := utils.DiscoverInputs(paths, cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(w, color.YellowString("No CSV or XLSX files found."))
		return nil
	}

	fmt.Fprintf(w, "Rendering %d file(s) as %s...\n", len(inputs), cfg.Output.Format)

	renderer, err := chart.NewRenderer(cfg.Output.Format)
	if err != nil {
		return err
	}
	names := utils.OutputNames(cfg.Output.FilePattern, inputs, renderer.Extension())

	jobs := make([]*pipeline.Job, len(inputs))
	for i, input := range inputs {
		jobs[i] = &pipeline.Job{
			InputPath:  input,
			Config:     cfg,
			OutputPath: filepath.Join(cfg.Output.Dir, names[i]),
			Logger:     logger,
		}
	}
	results := pipeline.RunAll(ctx, jobs, cfg.Output.MaxConcurrency)

	printResults(w, results)

	summary := pipeline.Summarize(results, startTime, time.Now())
	printSummary(w, summary)

	if summaryLog {
		if err := utils.EnsureDir(cfg.Output.Dir); err != nil {
			return err
		}
		path, err := utils.WriteSummaryLog(summary, cfg.Output.Dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Summary written to %s\n", path)
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// printResults prints one line per job.
func printResults(w io.Writer, results []pipeline.Result) {
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, r := range results {
		name := filepath.Base(r.FilePath)
		if r.Success {
			fmt.Fprintf(w, "  %s %s -> %s (%d bars, %d categories)\n",
				ok("✓"), name, r.OutputFile, r.Stats.Records, r.Stats.Categories)
			continue
		}
		fmt.Fprintf(w, "  %s %s: %v\n", fail("✗"), name, r.Error)
	}
}

func printSummary(w io.Writer, s utils.ProcessingSummary) {
	fmt.Fprintln(w, "\n=== Processing Complete ===")
	fmt.Fprintf(w, "Total files:     %d\n", s.TotalFiles)
	fmt.Fprintf(w, "Successful:      %d\n", s.SuccessfulFiles)
	fmt.Fprintf(w, "Errors:          %d\n", s.FailedFiles)
	fmt.Fprintf(w, "Warnings:        %d\n", s.Warnings)
	fmt.Fprintf(w, "Time elapsed:    %s\n", s.EndTime.Sub(s.StartTime).Round(time.Millisecond))
}
