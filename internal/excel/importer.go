package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/quizbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	IDColumn      string // Column with the question ID
	PromptColumn  string // Column with the question text
	CorrectColumn string // Column with the 1-based number of the correct option
	OptionsColumn string // First option column; options run to the end of the row
	SheetName     string // Name of the sheet to import, empty for the first sheet
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		IDColumn:      "A",
		PromptColumn:  "B",
		CorrectColumn: "C",
		OptionsColumn: "D",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportQuestions reads a question set from an Excel or CSV file.
// Rows that do not form a valid question are skipped and reported in the
// result.
func ImportQuestions(config ImportConfig) ([]models.Question, *ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open question file: %w", err)
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return importFromCSV(file, config)
	}
	return importFromExcel(file, config)
}

// importFromExcel imports questions from an Excel workbook
func importFromExcel(r io.Reader, config ImportConfig) ([]models.Question, *ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return processRows(rows, config)
}

// importFromCSV imports questions from a CSV file
func importFromCSV(r io.Reader, config ImportConfig) ([]models.Question, *ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return processRows(rows, config)
}

func processRows(rows [][]string, config ImportConfig) ([]models.Question, *ImportResult, error) {
	result := &ImportResult{Errors: make([]string, 0)}
	questions := make([]models.Question, 0, len(rows))
	seen := make(map[string]bool)

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 || isBlank(row) {
			continue
		}
		result.TotalProcessed++

		q, err := processRow(row, config)
		if err == nil && seen[q.ID] {
			err = fmt.Errorf("duplicate question ID %q", q.ID)
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}

		seen[q.ID] = true
		questions = append(questions, q)
		result.Imported++
	}

	return questions, result, nil
}

// processRow turns a single row into a question
func processRow(row []string, config ImportConfig) (models.Question, error) {
	q := models.Question{
		ID:     cell(row, config.IDColumn),
		Prompt: cell(row, config.PromptColumn),
	}

	correct, err := strconv.Atoi(cell(row, config.CorrectColumn))
	if err != nil {
		return models.Question{}, fmt.Errorf("correct option must be a number")
	}
	q.CorrectIndex = correct - 1

	start := columnToIndex(config.OptionsColumn)
	if start < 0 {
		return models.Question{}, fmt.Errorf("options column is not set")
	}
	last := len(row) - 1
	for last >= start && strings.TrimSpace(row[last]) == "" {
		last--
	}
	// Options keep their column positions so the correct number stays valid
	for idx := start; idx <= last; idx++ {
		option := strings.TrimSpace(row[idx])
		if option == "" {
			return models.Question{}, fmt.Errorf("option %d is empty", idx-start+1)
		}
		q.Options = append(q.Options, option)
	}

	if err := q.Validate(); err != nil {
		return models.Question{}, err
	}
	return q, nil
}

func cell(row []string, column string) string {
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
