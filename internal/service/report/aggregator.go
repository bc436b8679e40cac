package report

import (
	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns part/total*100 rounded to one decimal, or 0 when total is 0.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		InexactFloat64()
}

// Aggregate counts every observation on working days. Weekend and holiday
// days are informational only and never contribute. Departments keep the
// order of their first appearance.
func Aggregate(days []report.DaySummary) (report.OverallStats, []report.DepartmentStat) {
	var overall report.OverallStats
	departments := []report.DepartmentStat{}
	index := make(map[string]int)

	for _, day := range days {
		if ClassifyDay(day).IsException() {
			continue
		}

		for _, o := range day.Employees {
			status := o.Status
			if !status.IsValid() {
				status = report.StatusAbsent
			}

			overall.Total++
			switch status {
			case report.StatusPresent:
				overall.Present++
			case report.StatusGraced:
				overall.Graced++
			case report.StatusLate:
				overall.Late++
			case report.StatusAbsent:
				overall.Absent++
			case report.StatusOnLeave:
				overall.OnLeave++
			}

			i, ok := index[o.Department]
			if !ok {
				i = len(departments)
				index[o.Department] = i
				departments = append(departments, report.DepartmentStat{Department: o.Department})
			}
			departments[i].Total++
			if status.IsAttending() {
				departments[i].Attending++
			}
		}
	}

	overall.Attending = overall.Present + overall.Graced + overall.Late
	for i := range departments {
		departments[i].Percentage = Percentage(departments[i].Attending, departments[i].Total)
	}

	return overall, departments
}
