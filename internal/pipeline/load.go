package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/crimechart/internal/aggregate"
	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/ginjaninja78/crimechart/internal/csvparser"
	"github.com/ginjaninja78/crimechart/internal/transform"
	"github.com/ginjaninja78/crimechart/internal/types"
	"github.com/ginjaninja78/crimechart/internal/validation"
	"github.com/ginjaninja78/crimechart/internal/xlsxparser"
	"github.com/ginjaninja78/crimechart/pkg/utils"
)

// Dataset is an input file read and aggregated.
type Dataset struct {
	Source     string
	Rows       []types.Row
	Records    []types.YearRecord
	Categories *types.CategorySet

	// Warnings holds header and contiguity problems that did not stop
	// the load.
	Warnings []*validation.ValidationError
}

// ReadTable parses path as CSV or XLSX depending on its extension.
func ReadTable(path string, settings config.InputSettings) (*csvparser.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case utils.ExtXLSX:
		return xlsxparser.ParseFile(path, settings)
	case utils.ExtCSV:
		return csvparser.ParseFile(path, settings)
	default:
		return nil, fmt.Errorf("unsupported input file type: %s", filepath.Ext(path))
	}
}

// Load reads path and aggregates its rows.
//
// STEPS:
//  1. Parse the table (CSV or XLSX)
//  2. Check the configured columns exist
//  3. Adapt rows (lenient or strict)
//  4. Apply label transformations
//  5. Report non-contiguous years
//  6. Aggregate into year records
func Load(ctx context.Context, path string, cfg *config.Config, logger Logger) (*Dataset, error) {
	if logger == nil {
		logger = discardLogger()
	}

	transformer, err := transform.NewTransformer(cfg.Transformations)
	if err != nil {
		return nil, fmt.Errorf("invalid transformations: %w", err)
	}

	table, err := ReadTable(path, cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	logger.Debug("parsed table", "file", path, "rows", table.Len(), "columns", len(table.Headers))

	ds := &Dataset{Source: path}

	adapter := validation.NewAdapter(cfg.Fields, cfg.Strict)
	headerIssues := adapter.CheckHeaders(table.Headers)
	if validation.HasErrors(headerIssues) {
		errs := make([]error, len(headerIssues))
		for i, issue := range headerIssues {
			errs[i] = issue
		}
		return nil, errors.Join(errs...)
	}
	for _, issue := range headerIssues {
		logger.Warn("missing column", "file", path, "field", issue.Field)
		ds.Warnings = append(ds.Warnings, issue)
	}

	rows, err := adapter.Rows(table)
	if err != nil {
		return nil, err
	}
	rows, err = transformer.Rows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to transform labels: %w", err)
	}
	ds.Rows = rows

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, w := range validation.CheckContiguous(rows) {
		logger.Warn("year is not contiguous", "file", path, "year", w.Value, "row", w.RowNumber)
		ds.Warnings = append(ds.Warnings, w)
	}

	if cfg.Strict {
		ds.Records, ds.Categories, err = aggregate.AggregateStrict(rows)
		if err != nil {
			return nil, err
		}
	} else {
		ds.Records, ds.Categories = aggregate.Aggregate(rows)
	}
	logger.Debug("aggregated", "file", path, "records", len(ds.Records), "categories", ds.Categories.Len())

	return ds, nil
}
