// =============================================================================
// Crime Chart - Main Entry Point
// =============================================================================
//
// USAGE:
//   crimechart render    - Render stacked bar charts from CSV/XLSX files
//   crimechart summary   - Print the aggregated table of a file
//   crimechart export    - Export aggregated data as JSON, CSV or Parquet
//   crimechart version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : parsing, aggregation, stacking, rendering, export
//   - pkg/           : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/crimechart/cmd"
)

func main() {
	cmd.Execute()
}
