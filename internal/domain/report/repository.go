package report

import (
	"context"
	"time"
)

// ObservationFilter narrows the observations read for one report.
type ObservationFilter struct {
	CompanyID    string
	DateFrom     time.Time
	DateTo       time.Time
	Department   *string
	GraceMinutes int
}

// AttendanceReportRepository reads the raw material of an attendance report.
type AttendanceReportRepository interface {
	// ListObservations returns one observation per attendance record, ordered
	// by date, department and employee name.
	ListObservations(ctx context.Context, filter ObservationFilter) ([]AttendanceObservation, error)

	// ListHolidays returns the company holidays inside the range.
	ListHolidays(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error)

	// ListActiveCompanyIDs returns every company with at least one active employee.
	ListActiveCompanyIDs(ctx context.Context) ([]string, error)

	// Snapshot runs fn against a consistent read-only view of the data.
	Snapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// SummaryCache stores compiled summaries between requests.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*AttendanceSummary, bool, error)
	Set(ctx context.Context, key string, summary AttendanceSummary) error
}
