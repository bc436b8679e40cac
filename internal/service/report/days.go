package report

import (
	"time"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
)

const dateLayout = "2006-01-02"

func dayKey(t time.Time) string {
	return t.Format(dateLayout)
}

// calendarDays counts the dates in [from, to], ignoring clock changes.
func calendarDays(from, to time.Time) int {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// BuildDaySummaries lays out one DaySummary per calendar date in [from, to],
// in chronological order. Observations keep their input order within a day;
// observations outside the range are dropped. Dates are compared as
// calendar dates, so loc only affects the returned Date values.
func BuildDaySummaries(from, to time.Time, observations []report.AttendanceObservation, holidays []report.Holiday, loc *time.Location) []report.DaySummary {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
	if end.Before(start) {
		return []report.DaySummary{}
	}

	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[dayKey(h.Date)] = true
	}

	byDate := make(map[string][]report.AttendanceObservation)
	for _, o := range observations {
		key := dayKey(o.Date)
		byDate[key] = append(byDate[key], o)
	}

	var days []report.DaySummary
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		key := dayKey(current)
		employees := byDate[key]
		if employees == nil {
			employees = []report.AttendanceObservation{}
		}

		weekday := current.Weekday()
		days = append(days, report.DaySummary{
			Date:      current,
			IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
			IsHoliday: holidaySet[key],
			Employees: employees,
		})
	}

	return days
}
