// =============================================================================
// Crime Chart - XLSX Parser Module
// =============================================================================
//
// This module reads the same tabular data as the CSV parser from an Excel
// workbook. Statistics offices often publish the crime tables as XLSX; the
// sheet layout is expected to match the CSV one: header row(s) followed by
// one observation per row.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/csvparser"
	"github.com/xuri/excelize/v2"
)

// ParseFile reads the configured sheet of the workbook at filePath.
// An empty settings.Sheet selects the first sheet.
func ParseFile(filePath string, settings config.InputSettings) (*csvparser.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := parseWorkbook(f, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

func parseWorkbook(f *excelize.File, settings config.InputSettings) (*csvparser.Table, error) {
	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (available: %s)", sheetName, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	table, err := csvparser.BuildTable(rows, settings)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}
	return table, nil
}
