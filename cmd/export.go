// =============================================================================
// Crime Chart - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes the aggregated
// records and the stacked series of an input file instead of a chart.
//
// COMMAND USAGE:
//   crimechart export <file> [--format json|csv|parquet] [--output path]
//
// FORMATS:
//   json    : categories, year records and stacked series
//   csv     : one row per year, one column per category
//   parquet : one row per stacked point
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export aggregated and stacked data as JSON, CSV or Parquet",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, "out-dir", "strict")
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
		return exportFile(cmd.Context(), cmd.OutOrStdout(), cfg, logger, args[0], exportFormat, exportOutput)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", config.FormatJSON, "Export format: json, csv or parquet")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output file (default: generated inside --out-dir)")
	exportCmd.Flags().StringP("out-dir", "o", "", "Directory for the exported file")
	exportCmd.Flags().Bool("strict", false, "Reject rows with missing labels or malformed values")
}

// exportFile runs a single export job and reports the outcome to w.
func exportFile(ctx context.Context, w io.Writer, cfg *config.Config, logger pipeline.Logger, input, format, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format = strings.ToLower(format)
	if !config.IsExportFormat(format) {
		return fmt.Errorf("export format must be json, csv or parquet, got %q", format)
	}

	job := &pipeline.Job{
		InputPath:  input,
		Config:     cfg,
		Format:     format,
		OutputPath: output,
		Logger:     logger,
	}
	result := job.Run(ctx)
	if !result.Success {
		return result.Error
	}

	fmt.Fprintf(w, "%s %s -> %s\n", color.GreenString("✓"), input, result.OutputFile)
	return nil
}
