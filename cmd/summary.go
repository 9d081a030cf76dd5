// =============================================================================
// Crime Chart - Summary Command
// =============================================================================
//
// This file defines the 'summary' command, which prints the aggregated
// year x category table of an input file without drawing anything. It is
// the quickest way to check what a chart will show.
//
// COMMAND USAGE:
//   crimechart summary <file> [--strict] [--width n] [--warnings-log path]
//
// OUTPUT:
//   A table with one row per year record, one column per category and a
//   total column, followed by any warnings found while loading.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/ginjaninja78/crimechart/internal/pipeline"
	"github.com/ginjaninja78/crimechart/internal/validation"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// summaryWidth overrides the detected terminal width; 0 means detect.
	summaryWidth int

	// warningsLog is a file to write load warnings to.
	warningsLog string
)

// minHeaderWidth is the narrowest a category header is truncated to.
const minHeaderWidth = 8

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Print the aggregated table of an input file",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, "strict")
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

		ds, err := pipeline.Load(cmd.Context(), args[0], cfg, logger)
		if err != nil {
			return err
		}
		if warningsLog != "" {
			if err := validation.WriteErrorLog(ds.Warnings, warningsLog); err != nil {
				return err
			}
		}
		return printDataset(cmd.OutOrStdout(), ds, terminalWidth(summaryWidth))
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().Bool("strict", false, "Reject rows with missing labels or malformed values")
	summaryCmd.Flags().IntVar(&summaryWidth, "width", 0, "Table width in columns (default: terminal width)")
	summaryCmd.Flags().StringVar(&warningsLog, "warnings-log", "", "Also write load warnings to this file")
}

// terminalWidth returns override when positive, else the width of stdout,
// falling back to 80 when it is not a terminal.
func terminalWidth(override int) int {
	if override > 0 {
		return override
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// headerWidth is the room left for each category header once the year
// and total columns and the borders are taken.
func headerWidth(width, categories int) int {
	if categories == 0 {
		return width
	}
	available := (width-20)/categories - 3
	if available < minHeaderWidth {
		return minHeaderWidth
	}
	return available
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// printDataset renders ds as a table followed by its warnings. Category
// headers are truncated to fit width.
func printDataset(w io.Writer, ds *pipeline.Dataset, width int) error {
	fmt.Fprintf(w, "%s: %d row(s), %d bar(s), %d categor(ies)\n\n",
		ds.Source, len(ds.Rows), len(ds.Records), ds.Categories.Len())

	categories := ds.Categories.Names()

	table := tablewriter.NewWriter(w)

	maxHeader := headerWidth(width, len(categories))
	headers := []string{"Year"}
	for _, category := range categories {
		headers = append(headers, truncate(category, maxHeader))
	}
	headers = append(headers, "Total")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(ds.Records))
	for _, rec := range ds.Records {
		row := []string{rec.Year}
		for _, category := range categories {
			v, ok := rec.Get(category)
			row = append(row, formatCount(v, ok))
		}
		row = append(row, formatCount(rec.Total(), true))
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(ds.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, validation.FormatErrors(ds.Warnings))
	}
	return nil
}

// formatCount groups thousands. Absent categories print as "-".
func formatCount(v float64, ok bool) string {
	switch {
	case !ok:
		return "-"
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 0):
		return fmt.Sprint(v)
	}
	return humanize.Commaf(v)
}
