// =============================================================================
// Crime Chart - CSV Parser Module
// =============================================================================
//
// This module reads the tabular source data. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Multi-line headers (merged column by column)
//   - Custom data start rows
//   - Quoted fields, lazy quotes and ragged rows
//
// The result is a Table: an ordered list of header -> value maps plus the
// source line of every data row. The same Table shape is produced by the
// xlsxparser package, so everything downstream is format independent.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/crimechart/internal/config"
)

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Table is a parsed data file.
type Table struct {
	// Headers contains the merged column headers.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	Rows []map[string]string

	// Lines holds the 1-based record number of each entry in Rows. Blank
	// lines are not counted by the CSV reader.
	Lines []int

	// SourceFile is the path the table was read from.
	SourceFile string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile opens filePath and parses it as CSV.
func ParseFile(filePath string, settings config.InputSettings) (*Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := Parse(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// Parse reads CSV data from r.
//
// PARSING PROCESS:
//  1. Configure the CSV reader with the delimiter setting
//  2. Read and merge header rows
//  3. Read data rows starting at the configured data start row
//  4. Convert each row to a map of header -> value
//
// An input with only a header yields a table with no rows. A completely
// empty input is an error, since there are no headers to map fields by.
func Parse(r io.Reader, settings config.InputSettings) (*Table, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return BuildTable(allRows, settings)
}

// BuildTable turns raw records into a Table using the header and data
// start settings. Row i of allRows is taken to be source line i+1.
func BuildTable(allRows [][]string, settings config.InputSettings) (*Table, error) {
	headers, err := extractHeaders(allRows, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	rows, lines := extractDataRows(allRows, headers, settings)

	return &Table{
		Headers: headers,
		Rows:    rows,
		Lines:   lines,
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputSettings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Allow a variable number of fields per row.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// Delimiter resolves a configured delimiter name to a rune.
func Delimiter(name string) rune {
	switch name {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	case "":
		return ','
	default:
		return []rune(name)[0]
	}
}

// extractHeaders extracts and merges headers.
//
// MULTI-LINE HEADER HANDLING:
//
//	Row 1: "Crime", "", ""
//	Row 2: "Year", "Type", "Count"
//	Result: "Crime Year", "Type", "Count"
func extractHeaders(allRows [][]string, settings config.InputSettings) ([]string, error) {
	if settings.HeaderRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}

	if len(allRows) < settings.HeaderRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	if settings.HeaderRows == 1 {
		return cleanHeaders(allRows[0]), nil
	}

	maxCols := 0
	for i := 0; i < settings.HeaderRows; i++ {
		if len(allRows[i]) > maxCols {
			maxCols = len(allRows[i])
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for row := 0; row < settings.HeaderRows; row++ {
			if col < len(allRows[row]) {
				if value := strings.TrimSpace(allRows[row][col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims headers and names empty ones after their column.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts data rows to maps, skipping blank rows.
func extractDataRows(allRows [][]string, headers []string, settings config.InputSettings) ([]map[string]string, []int) {
	// DataStartRow is 1-indexed.
	startIndex := settings.DataStartRow - 1
	if startIndex < settings.HeaderRows {
		startIndex = settings.HeaderRows
	}

	dataRows := []map[string]string{}
	lines := []int{}
	if startIndex >= len(allRows) {
		return dataRows, lines
	}

	for rowIndex := startIndex; rowIndex < len(allRows); rowIndex++ {
		row := allRows[rowIndex]
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		dataRows = append(dataRows, rowMap)
		lines = append(lines, rowIndex+1)
	}

	return dataRows, lines
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
