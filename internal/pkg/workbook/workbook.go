package workbook

import (
	"strconv"
	"unicode/utf8"
)

// Color is a "#RRGGBB" value. The empty color means no fill.
type Color string

type HAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"
)

// Style is the presentation of one cell.
type Style struct {
	Bold      bool
	FontSize  float64
	FontColor Color
	Fill      Color
	Border    bool
	Align     HAlign
}

type CellType int

const (
	CellEmpty CellType = iota
	CellText
	CellNumber
)

type Cell struct {
	Type   CellType
	Text   string
	Number float64
	Style  Style
}

func Text(s string, style Style) Cell {
	if s == "" {
		return Blank(style)
	}
	return Cell{Type: CellText, Text: s, Style: style}
}

func Number(n float64, style Style) Cell {
	return Cell{Type: CellNumber, Number: n, Style: style}
}

func Blank(style Style) Cell {
	return Cell{Type: CellEmpty, Style: style}
}

// Display returns the text a spreadsheet shows for the cell.
func (c Cell) Display() string {
	switch c.Type {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return ""
}

// Merge spans one row from FirstCol to LastCol, both inclusive and 0-based.
type Merge struct {
	Row      int
	FirstCol int
	LastCol  int
}

type Sheet struct {
	Name         string
	Rows         [][]Cell
	Merges       []Merge
	ColumnWidths []float64
}

// AppendRow adds a row and returns its 0-based index.
func (s *Sheet) AppendRow(cells ...Cell) int {
	row := make([]Cell, len(cells))
	copy(row, cells)
	s.Rows = append(s.Rows, row)
	return len(s.Rows) - 1
}

func (s *Sheet) MergeRow(row, firstCol, lastCol int) {
	s.Merges = append(s.Merges, Merge{Row: row, FirstCol: firstCol, LastCol: lastCol})
}

// Width is the number of columns used by the widest row.
func (s *Sheet) Width() int {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// AutoFit sizes every column as max(minWidth, min(maxWidth, longest+padding)),
// measuring the display text of non-empty cells.
func (s *Sheet) AutoFit(minWidth, maxWidth, padding float64) {
	longest := make([]int, s.Width())
	for _, row := range s.Rows {
		for col, cell := range row {
			if cell.Type == CellEmpty {
				continue
			}
			if n := utf8.RuneCountInString(cell.Display()); n > longest[col] {
				longest[col] = n
			}
		}
	}

	s.ColumnWidths = make([]float64, len(longest))
	for col, n := range longest {
		s.ColumnWidths[col] = max(minWidth, min(maxWidth, float64(n)+padding))
	}
}

type Workbook struct {
	Sheets []*Sheet
}

func New() *Workbook {
	return &Workbook{}
}

func (w *Workbook) AddSheet(name string) *Sheet {
	sheet := &Sheet{Name: name}
	w.Sheets = append(w.Sheets, sheet)
	return sheet
}

func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for _, sheet := range w.Sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return nil, false
}
