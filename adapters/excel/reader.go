// Package excel imports daily check-in entries from spreadsheet files, for
// users migrating an experiment they tracked by hand. Both .xlsx and .csv are
// supported; the expected columns are date, phase, outcome,
// intervention_applied, confounding_factors.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"nof1/domain/core"
	"nof1/domain/experiment"
)

// EntryReader reads entry rows from an Excel or CSV file
type EntryReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewEntryReader creates a reader that handles both Excel and CSV files
func NewEntryReader(filePath string) *EntryReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &EntryReader{filePath: filePath, fileType: fileType}
}

// ReadEntries parses the file into entries for the given experiment
func (r *EntryReader) ReadEntries(experimentID core.ExperimentID) ([]experiment.Entry, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var entries []experiment.Entry
	for i, row := range rows[1:] {
		entry, err := parseRow(row, columns, experimentID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *EntryReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rows, nil
}

func (r *EntryReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// columnIndexes locates the known columns in the header row
type columnIndexes struct {
	date         int
	phase        int
	outcome      int
	intervention int // -1 when absent
	confounders  int // -1 when absent
}

func mapColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{date: -1, phase: -1, outcome: -1, intervention: -1, confounders: -1}
	for i, name := range header {
		switch normalizeHeader(name) {
		case "date":
			cols.date = i
		case "phase":
			cols.phase = i
		case "outcome", "outcome_value", "value":
			cols.outcome = i
		case "intervention_applied", "applied":
			cols.intervention = i
		case "confounding_factors", "confounders", "confounded":
			cols.confounders = i
		}
	}
	if cols.date < 0 || cols.phase < 0 || cols.outcome < 0 {
		return cols, fmt.Errorf("header must contain date, phase and outcome columns, got %v", header)
	}
	return cols, nil
}

func normalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func parseRow(row []string, cols columnIndexes, experimentID core.ExperimentID) (experiment.Entry, error) {
	entry := experiment.Entry{
		ID:           core.NewEntryID(),
		ExperimentID: experimentID,
		CreatedAt:    core.Now(),
	}

	date, err := core.ParseDay(cell(row, cols.date))
	if err != nil {
		return entry, err
	}
	entry.Date = date

	entry.Phase = experiment.Phase(strings.ToLower(cell(row, cols.phase)))
	if !entry.Phase.IsValid() {
		return entry, fmt.Errorf("unknown phase %q", cell(row, cols.phase))
	}

	// Blank outcome cells are legal: the day was logged without a rating.
	if raw := cell(row, cols.outcome); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return entry, fmt.Errorf("invalid outcome value %q", raw)
		}
		entry.OutcomeValue = &value
	}

	if cols.intervention >= 0 {
		if raw := cell(row, cols.intervention); raw != "" {
			applied, err := strconv.ParseBool(strings.ToLower(raw))
			if err != nil {
				return entry, fmt.Errorf("invalid intervention_applied value %q", raw)
			}
			entry.InterventionApplied = &applied
		}
	}

	if cols.confounders >= 0 {
		if raw := cell(row, cols.confounders); raw != "" {
			confounded, err := strconv.ParseBool(strings.ToLower(raw))
			if err != nil {
				return entry, fmt.Errorf("invalid confounding_factors value %q", raw)
			}
			entry.HasConfoundingFactors = confounded
		}
	}

	return entry, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
