package report

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/workbook"
	"github.com/shopspring/decimal"
)

const (
	SheetSummary     = "Summary"
	SheetDepartments = "Department Analysis"
	SheetDetails     = "Detailed Records"

	minColumnWidth = 10
	maxColumnWidth = 50
	columnPadding  = 2
)

var (
	summaryHeader    = []string{"Status", "Count", "Percentage"}
	departmentHeader = []string{"Department", "Attending", "Total", "Attendance Rate"}
	detailHeader     = []string{"Date", "Employee ID", "Employee Name", "Department", "Status", "Check In", "Check Out", "Hours Worked", "Notes"}
)

var (
	titleStyle  = workbook.Style{Bold: true, FontSize: 16, Align: workbook.AlignCenter}
	labelStyle  = workbook.Style{Bold: true}
	valueStyle  = workbook.Style{}
	headerStyle = workbook.Style{Bold: true, FontColor: "#FFFFFF", Fill: "#4472C4", Border: true, Align: workbook.AlignCenter}
)

func bodyStyle(fill workbook.Color) workbook.Style {
	return workbook.Style{Fill: fill, Border: true}
}

// BuildInput is everything the document builder renders.
type BuildInput struct {
	DateFrom    time.Time
	DateTo      time.Time
	GeneratedAt time.Time
	Overall     report.OverallStats
	Departments []report.DepartmentStat
	Days        []report.DaySummary
}

// DocumentBuilder lays out the three report sheets. Clock times are shown
// in loc.
type DocumentBuilder struct {
	loc *time.Location
}

func NewDocumentBuilder(loc *time.Location) *DocumentBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &DocumentBuilder{loc: loc}
}

func (b *DocumentBuilder) Build(in BuildInput) *workbook.Workbook {
	wb := workbook.New()
	b.buildSummary(wb.AddSheet(SheetSummary), in)
	b.buildDepartments(wb.AddSheet(SheetDepartments), in.Departments)
	b.buildDetails(wb.AddSheet(SheetDetails), in.Days)

	for _, sheet := range wb.Sheets {
		sheet.AutoFit(minColumnWidth, maxColumnWidth, columnPadding)
	}
	return wb
}

func (b *DocumentBuilder) buildSummary(s *workbook.Sheet, in BuildInput) {
	title := s.AppendRow(workbook.Text("Attendance Report Summary", titleStyle))
	s.MergeRow(title, 0, len(summaryHeader)-1)

	s.AppendRow(
		workbook.Text("Generated On", labelStyle),
		workbook.Text(in.GeneratedAt.In(b.loc).Format("2006-01-02 15:04:05"), valueStyle),
	)
	s.AppendRow(
		workbook.Text("Date Range", labelStyle),
		workbook.Text(formatDate(in.DateFrom)+" to "+formatDate(in.DateTo), valueStyle),
	)
	s.AppendRow(
		workbook.Text("Total Records", labelStyle),
		workbook.Number(float64(in.Overall.Total), valueStyle),
	)
	s.AppendRow()

	s.AppendRow(headerCells(summaryHeader)...)

	rows := []struct {
		label string
		count int
		color report.Status
	}{
		{"Attending", in.Overall.Attending, report.StatusPresent},
		{"Present", in.Overall.Present, report.StatusPresent},
		{"Graced", in.Overall.Graced, report.StatusGraced},
		{"Late", in.Overall.Late, report.StatusLate},
		{"Absent", in.Overall.Absent, report.StatusAbsent},
		{"On Leave", in.Overall.OnLeave, report.StatusOnLeave},
	}
	for _, row := range rows {
		style := bodyStyle(StatusFill(row.color))
		s.AppendRow(
			workbook.Text(row.label, style),
			workbook.Number(float64(row.count), style),
			workbook.Text(formatPercent(Percentage(row.count, in.Overall.Total)), style),
		)
	}
}

func (b *DocumentBuilder) buildDepartments(s *workbook.Sheet, departments []report.DepartmentStat) {
	title := s.AppendRow(workbook.Text("Department Analysis", titleStyle))
	s.MergeRow(title, 0, len(departmentHeader)-1)

	s.AppendRow(headerCells(departmentHeader)...)

	for _, d := range departments {
		style := bodyStyle(RateFill(d.Percentage))
		s.AppendRow(
			workbook.Text(d.Department, style),
			workbook.Number(float64(d.Attending), style),
			workbook.Number(float64(d.Total), style),
			workbook.Text(formatPercent(d.Percentage), style),
		)
	}
}

func (b *DocumentBuilder) buildDetails(s *workbook.Sheet, days []report.DaySummary) {
	title := s.AppendRow(workbook.Text("Detailed Attendance Records", titleStyle))
	s.MergeRow(title, 0, len(detailHeader)-1)

	s.AppendRow(headerCells(detailHeader)...)

	for _, day := range days {
		kind := ClassifyDay(day)
		if kind.IsException() {
			style := bodyStyle(DayFill(kind))
			cells := make([]workbook.Cell, len(detailHeader))
			for i := range cells {
				cells[i] = workbook.Blank(style)
			}
			cells[0] = workbook.Text(formatDate(day.Date), style)
			cells[len(cells)-1] = workbook.Text(DayLabel(kind), style)
			s.AppendRow(cells...)
			continue
		}

		for _, o := range day.Employees {
			style := bodyStyle(StatusFill(o.Status))
			s.AppendRow(
				workbook.Text(formatDate(day.Date), style),
				workbook.Text(o.EmployeeID, style),
				workbook.Text(o.EmployeeName, style),
				workbook.Text(o.Department, style),
				workbook.Text(StatusLabel(o.Status), style),
				workbook.Text(b.formatClock(o.CheckIn), style),
				workbook.Text(b.formatClock(o.CheckOut), style),
				workbook.Text(formatHours(o.HoursWorked), style),
				workbook.Text(ObservationNote(o.Status), style),
			)
		}
	}
}

func headerCells(titles []string) []workbook.Cell {
	cells := make([]workbook.Cell, len(titles))
	for i, t := range titles {
		cells[i] = workbook.Text(t, headerStyle)
	}
	return cells
}

func (b *DocumentBuilder) formatClock(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.In(b.loc).Format("15:04")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatHours(h decimal.Decimal) string {
	if !h.IsPositive() {
		return "0 hours"
	}
	return h.Round(2).String() + " hours"
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}
