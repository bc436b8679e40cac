package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the attendance status of one employee on one date.
type Status string

const (
	StatusPresent Status = "present"
	StatusGraced  Status = "graced"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusOnLeave Status = "on_leave"
)

// Statuses lists every observation status in report order.
var Statuses = []Status{StatusPresent, StatusGraced, StatusLate, StatusAbsent, StatusOnLeave}

// IsValid reports whether s is one of the five known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusGraced, StatusLate, StatusAbsent, StatusOnLeave:
		return true
	}
	return false
}

// IsAttending reports whether s counts toward attendance.
func (s Status) IsAttending() bool {
	return s == StatusPresent || s == StatusGraced || s == StatusLate
}

// DayKind classifies a calendar date.
type DayKind string

const (
	DayWorking           DayKind = "working"
	DayWeekend           DayKind = "weekend"
	DayHoliday           DayKind = "holiday"
	DayHolidayAndWeekend DayKind = "holiday_weekend"
)

// IsException reports whether the day is rendered as a single exception row.
func (k DayKind) IsException() bool {
	return k != DayWorking
}

type AttendanceObservation struct {
	Date         time.Time       `json:"date"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Department   string          `json:"department"`
	Status       Status          `json:"status"`
	CheckIn      *time.Time      `json:"check_in"`
	CheckOut     *time.Time      `json:"check_out"`
	HoursWorked  decimal.Decimal `json:"hours_worked"`
}

type DaySummary struct {
	Date      time.Time               `json:"date"`
	IsWeekend bool                    `json:"is_weekend"`
	IsHoliday bool                    `json:"is_holiday"`
	Employees []AttendanceObservation `json:"employees"`
}

type OverallStats struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Graced    int `json:"graced"`
	Late      int `json:"late"`
	Absent    int `json:"absent"`
	OnLeave   int `json:"on_leave"`
	Attending int `json:"attending"`
}

// Count returns the counter matching status, or 0 for unknown values.
func (o OverallStats) Count(status Status) int {
	switch status {
	case StatusPresent:
		return o.Present
	case StatusGraced:
		return o.Graced
	case StatusLate:
		return o.Late
	case StatusAbsent:
		return o.Absent
	case StatusOnLeave:
		return o.OnLeave
	}
	return 0
}

type DepartmentStat struct {
	Department string  `json:"department"`
	Attending  int     `json:"attending"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ReportRequest is the input of one compile run. Days are expected to be
// already restricted to [DateFrom, DateTo].
type ReportRequest struct {
	DateFrom time.Time    `json:"date_from"`
	DateTo   time.Time    `json:"date_to"`
	Days     []DaySummary `json:"days"`
}

// Holiday is a non-working calendar date declared by the company.
type Holiday struct {
	Date time.Time
	Name string
}
