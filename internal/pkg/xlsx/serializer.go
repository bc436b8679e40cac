package xlsx

import (
	"bytes"
	"fmt"

	"github.com/cmlabs-hris/hris-report-go/internal/pkg/workbook"
	"github.com/xuri/excelize/v2"
)

const (
	Extension   = "xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultSheet = "Sheet1"
	borderColor  = "000000"
)

// Serializer writes workbooks as Office Open XML spreadsheets.
type Serializer struct{}

func NewSerializer() *Serializer {
	return &Serializer{}
}

func (s *Serializer) Extension() string   { return Extension }
func (s *Serializer) ContentType() string { return ContentType }

func (s *Serializer) Serialize(wb *workbook.Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles := make(map[workbook.Style]int)

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet, styles); err != nil {
			return nil, fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}

	if len(wb.Sheets) > 0 {
		f.SetActiveSheet(0)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet *workbook.Sheet, styles map[workbook.Style]int) error {
	for r, row := range sheet.Rows {
		for c, cell := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}

			switch cell.Type {
			case workbook.CellText:
				err = f.SetCellStr(sheet.Name, name, cell.Text)
			case workbook.CellNumber:
				err = f.SetCellFloat(sheet.Name, name, cell.Number, -1, 64)
			}
			if err != nil {
				return fmt.Errorf("failed to set cell %s: %w", name, err)
			}

			if cell.Style == (workbook.Style{}) {
				continue
			}
			styleID, err := styleFor(f, cell.Style, styles)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet.Name, name, name, styleID); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", name, err)
			}
		}
	}

	for _, m := range sheet.Merges {
		start, err := excelize.CoordinatesToCellName(m.FirstCol+1, m.Row+1)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(m.LastCol+1, m.Row+1)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet.Name, start, end); err != nil {
			return fmt.Errorf("failed to merge %s:%s: %w", start, end, err)
		}
	}

	for i, width := range sheet.ColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	return nil
}

// styleFor registers each distinct style once per file.
func styleFor(f *excelize.File, style workbook.Style, styles map[workbook.Style]int) (int, error) {
	if id, ok := styles[style]; ok {
		return id, nil
	}

	id, err := f.NewStyle(toExcelStyle(style))
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	styles[style] = id
	return id, nil
}

func toExcelStyle(style workbook.Style) *excelize.Style {
	es := &excelize.Style{
		Font: &excelize.Font{
			Bold:  style.Bold,
			Size:  style.FontSize,
			Color: string(style.FontColor),
		},
		Alignment: &excelize.Alignment{
			Horizontal: string(style.Align),
			Vertical:   "center",
		},
	}

	if style.Fill != "" {
		es.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{string(style.Fill)},
			Pattern: 1,
		}
	}

	if style.Border {
		es.Border = []excelize.Border{
			{Type: "left", Color: borderColor, Style: 1},
			{Type: "top", Color: borderColor, Style: 1},
			{Type: "bottom", Color: borderColor, Style: 1},
			{Type: "right", Color: borderColor, Style: 1},
		}
	}

	return es
}
