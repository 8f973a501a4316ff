package excel

import (
	"fmt"

	"github.com/example/quizbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ExportConfig defines the layout of the exported workbook
type ExportConfig struct {
	SheetName    string // Name of the review sheet
	PromptWidth  float64
	OptionsWidth float64
}

// DefaultExportConfig returns the default export configuration
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		SheetName:    "Review",
		PromptWidth:  50,
		OptionsWidth: 60,
	}
}

// Header row of the review sheet
var reviewHeader = []string{"#", "Question", "Options", "Correct answer", "Your pick", "Result"}

// ExportResult holds the summary of an export
type ExportResult struct {
	Rows    int
	Correct int
	Total   int
}

// ExportReview writes the review rows of a finished session into a new
// workbook and returns it as xlsx bytes
func ExportReview(config ExportConfig, rows []models.ReviewRow, total int) ([]byte, *ExportResult, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = DefaultExportConfig().SheetName
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, nil, err
	}

	// Header
	for col, title := range reviewHeader {
		if err := setCell(f, sheet, col+1, 1, title); err != nil {
			return nil, nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", styles.header); err != nil {
		return nil, nil, fmt.Errorf("failed to style header: %w", err)
	}

	result := &ExportResult{Rows: len(rows), Total: total}
	for i, row := range rows {
		r := i + 2
		status := "Wrong"
		style := styles.wrong
		if row.IsCorrect {
			status = "Correct"
			style = styles.correct
			result.Correct++
		}

		values := []interface{}{i + 1, row.Prompt, formatOptions(row), row.CorrectOption(), row.PickedOption(), status}
		for col, value := range values {
			if err := setCell(f, sheet, col+1, r, value); err != nil {
				return nil, nil, err
			}
		}

		cell, _ := excelize.CoordinatesToCellName(6, r)
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return nil, nil, fmt.Errorf("failed to style row %d: %w", r, err)
		}
	}

	// Score line below the table
	scoreRow := len(rows) + 3
	if err := setCell(f, sheet, 1, scoreRow, "Score"); err != nil {
		return nil, nil, err
	}
	if err := setCell(f, sheet, 2, scoreRow, fmt.Sprintf("%d/%d", result.Correct, total)); err != nil {
		return nil, nil, err
	}
	scoreCell, _ := excelize.CoordinatesToCellName(1, scoreRow)
	if err := f.SetCellStyle(sheet, scoreCell, scoreCell, styles.header); err != nil {
		return nil, nil, fmt.Errorf("failed to style score: %w", err)
	}

	if config.PromptWidth > 0 {
		if err := f.SetColWidth(sheet, "B", "B", config.PromptWidth); err != nil {
			return nil, nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if config.OptionsWidth > 0 {
		if err := f.SetColWidth(sheet, "C", "C", config.OptionsWidth); err != nil {
			return nil, nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), result, nil
}

type reviewStyles struct {
	header  int
	correct int
	wrong   int
}

func newStyles(f *excelize.File) (reviewStyles, error) {
	var s reviewStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	s.correct, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create correct style: %w", err)
	}
	s.wrong, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create wrong style: %w", err)
	}
	return s, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell %d:%d: %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}

// formatOptions lists the options with their review annotation
func formatOptions(row models.ReviewRow) string {
	out := ""
	for i, option := range row.Options {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%c) %s", 'A'+i, option)
		if mark := row.Mark(i); mark != models.MarkNone {
			out += fmt.Sprintf(" [%s]", mark)
		}
	}
	return out
}
