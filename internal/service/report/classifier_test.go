package report

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyDay_DecisionTable(t *testing.T) {
	cases := []struct {
		holiday bool
		weekend bool
		kind    report.DayKind
		label   string
	}{
		{true, true, report.DayHolidayAndWeekend, "Holiday & Weekend"},
		{true, false, report.DayHoliday, "Holiday"},
		{false, true, report.DayWeekend, "Weekend"},
		{false, false, report.DayWorking, ""},
	}
	for _, c := range cases {
		kind := ClassifyDay(report.DaySummary{IsHoliday: c.holiday, IsWeekend: c.weekend})
		if kind != c.kind {
			t.Errorf("ClassifyDay(holiday=%v, weekend=%v) = %q, want %q", c.holiday, c.weekend, kind, c.kind)
		}
		if got := DayLabel(kind); got != c.label {
			t.Errorf("DayLabel(%q) = %q, want %q", kind, got, c.label)
		}
		if kind.IsException() != (c.holiday || c.weekend) {
			t.Errorf("IsException(%q) = %v", kind, kind.IsException())
		}
	}
}

func TestObservationNote(t *testing.T) {
	cases := map[report.Status]string{
		report.StatusLate:    "Late Arrival",
		report.StatusGraced:  "Grace Present",
		report.StatusAbsent:  "Absent",
		report.StatusOnLeave: "On Leave",
		report.StatusPresent: "Regular",
		report.Status(""):    "Regular",
		report.Status("wfh"): "Regular",
	}
	for status, want := range cases {
		if got := ObservationNote(status); got != want {
			t.Errorf("ObservationNote(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want report.Status
		ok   bool
	}{
		{"present", report.StatusPresent, true},
		{" Late ", report.StatusLate, true},
		{"On Leave", report.StatusOnLeave, true},
		{"on-leave", report.StatusOnLeave, true},
		{"grace_present", report.StatusGraced, true},
		{"GRACED", report.StatusGraced, true},
		{"waiting_approval", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseStatus(c.raw)
		assert.Equal(t, c.ok, ok, c.raw)
		if ok {
			assert.Equal(t, c.want, got, c.raw)
		}
	}
}

func TestNormalizeObservation(t *testing.T) {
	checkIn := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	t.Run("valid record untouched", func(t *testing.T) {
		in := report.AttendanceObservation{Status: report.StatusPresent, CheckIn: &checkIn, HoursWorked: decimal.NewFromInt(8)}
		out, coerced := NormalizeObservation(in)
		assert.False(t, coerced)
		assert.Equal(t, in, out)
	})

	t.Run("alias is not a coercion", func(t *testing.T) {
		out, coerced := NormalizeObservation(report.AttendanceObservation{Status: "On Leave"})
		assert.False(t, coerced)
		assert.Equal(t, report.StatusOnLeave, out.Status)
	})

	t.Run("unknown status becomes absent", func(t *testing.T) {
		out, coerced := NormalizeObservation(report.AttendanceObservation{Status: "waiting_approval", HoursWorked: decimal.NewFromInt(3)})
		assert.True(t, coerced)
		assert.Equal(t, report.StatusAbsent, out.Status)
		assert.True(t, out.HoursWorked.IsZero())
	})

	t.Run("negative hours clamp to zero", func(t *testing.T) {
		out, coerced := NormalizeObservation(report.AttendanceObservation{Status: report.StatusLate, HoursWorked: decimal.NewFromInt(-2)})
		assert.True(t, coerced)
		assert.True(t, out.HoursWorked.IsZero())
	})

	t.Run("on leave drops clock times", func(t *testing.T) {
		out, coerced := NormalizeObservation(report.AttendanceObservation{Status: report.StatusOnLeave, CheckIn: &checkIn, HoursWorked: decimal.NewFromInt(1)})
		assert.True(t, coerced)
		assert.Nil(t, out.CheckIn)
		assert.Nil(t, out.CheckOut)
		assert.True(t, out.HoursWorked.IsZero())
	})
}

func TestNormalizeDays_CountsAndDoesNotMutateInput(t *testing.T) {
	days := []report.DaySummary{
		{Employees: []report.AttendanceObservation{{Status: "bogus"}, {Status: report.StatusPresent}}},
		{Employees: []report.AttendanceObservation{{Status: report.StatusAbsent, HoursWorked: decimal.NewFromInt(4)}}},
	}

	out, coercions := NormalizeDays(days)

	assert.Equal(t, 2, coercions)
	assert.Equal(t, report.StatusAbsent, out[0].Employees[0].Status)
	assert.Equal(t, report.Status("bogus"), days[0].Employees[0].Status)
}
