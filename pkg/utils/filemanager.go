// =============================================================================
// Crime Chart - File Manager Utility
// =============================================================================
//
// This module provides the file handling shared by the commands:
//   - Input discovery (files and directories of CSV/XLSX tables)
//   - Output file naming from a pattern
//   - Directory management
//   - The processing summary log of a batch run
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Input extensions understood by the pipeline.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// IsSupportedInput reports whether path has a CSV or XLSX extension.
func IsSupportedInput(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV, ExtXLSX:
		return true
	}
	return false
}

// DiscoverInputs expands paths into a sorted list of input files.
//
// PARAMETERS:
//   - paths: Files or directories. Directories are scanned recursively for
//     supported tables; hidden files and directories are skipped.
//   - skipDirs: Directories the scan never enters, such as the output
//     directory. Naming one of them directly in paths still scans it.
//
// RETURNS:
//   - The input files, without duplicates.
//   - An error if a path does not exist or a file has an unsupported
//     extension.
func DiscoverInputs(paths []string, skipDirs ...string) ([]string, error) {
	skip := make(map[string]bool, len(skipDirs))
	for _, dir := range skipDirs {
		if dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			skip[abs] = true
		}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to access input %s: %w", p, err)
		}

		if !info.IsDir() {
			if !IsSupportedInput(p) {
				return nil, fmt.Errorf("unsupported input file %s: expected %s or %s", p, ExtCSV, ExtXLSX)
			}
			add(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := path != p && strings.HasPrefix(d.Name(), ".")
			if d.IsDir() {
				if hidden || (path != p && isSkipped(skip, path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !hidden && IsSupportedInput(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func isSkipped(skip map[string]bool, dir string) bool {
	if len(skip) == 0 {
		return false
	}
	abs, err := filepath.Abs(dir)
	return err == nil && skip[abs]
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - pattern: The pattern for the file name.
//     Placeholders:
//     {name}      - Input file name without extension
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//   - inputPath: The input file the output is produced from.
//   - ext: The extension to ensure, without the dot.
//
// EXAMPLE:
//
//	pattern: "{name}_{date}"
//	inputPath: "data/crimes.csv", ext: "svg"
//	output: "crimes_20240115.svg"
func GenerateOutputFileName(pattern, inputPath, ext string) string {
	if pattern == "" {
		pattern = "{name}"
	}
	now := time.Now()

	replacer := strings.NewReplacer(
		"{name}", BaseName(inputPath),
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
	)
	result := replacer.Replace(pattern)

	suffix := "." + strings.ToLower(ext)
	if ext != "" && !strings.HasSuffix(strings.ToLower(result), suffix) {
		result += suffix
	}
	return result
}

// OutputNames generates one output file name per input and makes them
// unique, so no two inputs of a batch write the same file.
//
// PARAMETERS:
//   - pattern, ext: As for GenerateOutputFileName.
//   - inputs: The input files of the batch, in a stable order.
//
// RETURNS:
//   - The names, in input order. Inputs whose names collide are prefixed
//     with their parent directory ("2019/crimes.csv" -> "2019_crimes.svg");
//     a name that still collides gets a numeric suffix ("crimes_2.svg").
func OutputNames(pattern string, inputs []string, ext string) []string {
	names := make([]string, len(inputs))
	count := make(map[string]int, len(inputs))
	for i, input := range inputs {
		names[i] = GenerateOutputFileName(pattern, input, ext)
		count[strings.ToLower(names[i])]++
	}

	used := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		name := names[i]
		if count[strings.ToLower(name)] > 1 {
			dir := filepath.Dir(input)
			if parent := filepath.Base(dir); parent != "." && parent != string(filepath.Separator) {
				name = GenerateOutputFileName(pattern, filepath.Join(dir, parent+"_"+filepath.Base(input)), ext)
			}
		}

		unique := name
		for n := 2; used[strings.ToLower(unique)]; n++ {
			unique = withSuffix(name, fmt.Sprintf("_%d", n))
		}
		used[strings.ToLower(unique)] = true
		names[i] = unique
	}
	return names
}

// withSuffix inserts suffix before the extension of name.
func withSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + suffix + ext
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a batch run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	TotalRecords    int
	Warnings        int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFile  string
	Rows        int
	Records     int
	Categories  int
	Warnings    int
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary to a file in outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Crime Chart - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Total Rows:     %d\n"+
		"  Total Records:  %d\n"+
		"  Warnings:       %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.TotalRecords,
		summary.Warnings)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:       %s\n", pf.OutputFile)
			fmt.Fprintf(writer, "  Rows:         %d\n", pf.Rows)
			fmt.Fprintf(writer, "  Records:      %d\n", pf.Records)
			fmt.Fprintf(writer, "  Categories:   %d\n", pf.Categories)
			fmt.Fprintf(writer, "  Warnings:     %d\n", pf.Warnings)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
