package report

import (
	"strings"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

// dayDecisionTable is evaluated top to bottom; the first matching row wins,
// so a holiday that falls on a weekend is reported as both.
var dayDecisionTable = []struct {
	holiday bool
	weekend bool
	kind    report.DayKind
}{
	{holiday: true, weekend: true, kind: report.DayHolidayAndWeekend},
	{holiday: true, weekend: false, kind: report.DayHoliday},
	{holiday: false, weekend: true, kind: report.DayWeekend},
	{holiday: false, weekend: false, kind: report.DayWorking},
}

var dayLabels = map[report.DayKind]string{
	report.DayHolidayAndWeekend: "Holiday & Weekend",
	report.DayHoliday:           "Holiday",
	report.DayWeekend:           "Weekend",
}

var observationNotes = map[report.Status]string{
	report.StatusLate:    "Late Arrival",
	report.StatusGraced:  "Grace Present",
	report.StatusAbsent:  "Absent",
	report.StatusOnLeave: "On Leave",
}

var statusLabels = map[report.Status]string{
	report.StatusPresent: "Present",
	report.StatusGraced:  "Graced",
	report.StatusLate:    "Late",
	report.StatusAbsent:  "Absent",
	report.StatusOnLeave: "On Leave",
}

// statusAliases maps spellings seen in upstream feeds onto the closed set.
var statusAliases = map[string]report.Status{
	"present":       report.StatusPresent,
	"on_time":       report.StatusPresent,
	"graced":        report.StatusGraced,
	"grace":         report.StatusGraced,
	"grace_present": report.StatusGraced,
	"late":          report.StatusLate,
	"absent":        report.StatusAbsent,
	"on_leave":      report.StatusOnLeave,
	"leave":         report.StatusOnLeave,
}

// ClassifyDay returns the kind of a calendar day.
func ClassifyDay(day report.DaySummary) report.DayKind {
	for _, rule := range dayDecisionTable {
		if rule.holiday == day.IsHoliday && rule.weekend == day.IsWeekend {
			return rule.kind
		}
	}
	return report.DayWorking
}

// DayLabel is the Notes text of an exception day, empty for working days.
func DayLabel(kind report.DayKind) string {
	return dayLabels[kind]
}

// ObservationNote is the Notes text of one observation row.
func ObservationNote(status report.Status) string {
	if note, ok := observationNotes[status]; ok {
		return note
	}
	return "Regular"
}

// StatusLabel is the human readable status name.
func StatusLabel(status report.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// ParseStatus maps a raw status string onto the closed set.
func ParseStatus(raw string) (report.Status, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	status, ok := statusAliases[key]
	return status, ok
}

// NormalizeObservation coerces a malformed observation to the nearest safe
// value. The second result reports whether anything was changed.
func NormalizeObservation(o report.AttendanceObservation) (report.AttendanceObservation, bool) {
	coerced := false

	// alias spellings are accepted silently; only unknown values count
	status, ok := ParseStatus(string(o.Status))
	if !ok {
		status = report.StatusAbsent
		coerced = true
	}
	o.Status = status

	if o.HoursWorked.IsNegative() {
		o.HoursWorked = decimal.Zero
		coerced = true
	}

	switch o.Status {
	case report.StatusOnLeave:
		if o.CheckIn != nil || o.CheckOut != nil || !o.HoursWorked.IsZero() {
			o.CheckIn, o.CheckOut = nil, nil
			o.HoursWorked = decimal.Zero
			coerced = true
		}
	case report.StatusAbsent:
		if !o.HoursWorked.IsZero() {
			o.HoursWorked = decimal.Zero
			coerced = true
		}
	}

	return o, coerced
}

// NormalizeDays returns a copy of days with every observation normalized,
// and the number of observations that needed coercion.
func NormalizeDays(days []report.DaySummary) ([]report.DaySummary, int) {
	out := make([]report.DaySummary, len(days))
	coercions := 0
	for i, day := range days {
		out[i] = day
		out[i].Employees = make([]report.AttendanceObservation, len(day.Employees))
		for j, o := range day.Employees {
			normalized, coerced := NormalizeObservation(o)
			if coerced {
				coercions++
			}
			out[i].Employees[j] = normalized
		}
	}
	return out, coercions
}
