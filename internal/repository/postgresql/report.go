package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// UnassignedDepartment groups employees without a branch.
const UnassignedDepartment = "Unassigned"

type attendanceReportRepository struct {
	db *database.DB
}

func NewAttendanceReportRepository(db *database.DB) report.AttendanceReportRepository {
	return &attendanceReportRepository{db: db}
}

// ListObservations implements report.AttendanceReportRepository.
func (r *attendanceReportRepository) ListObservations(ctx context.Context, filter report.ObservationFilter) ([]report.AttendanceObservation, error) {
	q := GetQuerier(ctx, r.db)

	// The status column tracks approval; lateness is only in late_minutes.
	// Arrivals up to the grace window late are reported as graced.
	query := `
		SELECT
			a.date,
			COALESCE(e.employee_code, e.id::text) AS employee_id,
			e.full_name,
			COALESCE(b.name, $5) AS department,
			CASE
				WHEN a.leave_type_id IS NOT NULL OR a.status IN ('on_leave', 'leave') THEN 'on_leave'
				WHEN a.status IN ('absent', 'rejected') THEN 'absent'
				WHEN a.status IN ('approved', 'present', 'waiting_approval', 'auto_closed', 'late') THEN
					CASE
						WHEN a.clock_in IS NULL THEN 'absent'
						WHEN COALESCE(a.late_minutes, 0) > $4 THEN 'late'
						WHEN COALESCE(a.late_minutes, 0) > 0 THEN 'graced'
						ELSE 'present'
					END
				ELSE a.status
			END AS status,
			a.clock_in,
			a.clock_out,
			COALESCE(a.work_hours_in_minutes, 0) AS work_minutes
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		LEFT JOIN branches b ON e.branch_id = b.id
		WHERE a.company_id = $1
			AND a.date >= $2 AND a.date <= $3
			AND e.deleted_at IS NULL
			AND ($6::text IS NULL OR COALESCE(b.name, $5) = $6)
		ORDER BY a.date, department, e.full_name, a.clock_in NULLS LAST
	`

	from := filter.DateFrom.Format("2006-01-02")
	to := filter.DateTo.Format("2006-01-02")

	rows, err := q.Query(ctx, query, filter.CompanyID, from, to, filter.GraceMinutes, UnassignedDepartment, filter.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance observations: %w", err)
	}
	defer rows.Close()

	observations := make([]report.AttendanceObservation, 0)
	for rows.Next() {
		var (
			o           report.AttendanceObservation
			status      string
			workMinutes int64
		)
		if err := rows.Scan(
			&o.Date, &o.EmployeeID, &o.EmployeeName, &o.Department,
			&status, &o.CheckIn, &o.CheckOut, &workMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance observation: %w", err)
		}
		o.Status = report.Status(status)
		o.HoursWorked = decimal.NewFromInt(workMinutes).Div(decimal.NewFromInt(60))
		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance observations: %w", err)
	}

	return observations, nil
}

// ListHolidays implements report.AttendanceReportRepository.
func (r *attendanceReportRepository) ListHolidays(ctx context.Context, companyID string, from, to time.Time) ([]report.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date, name
		FROM holidays
		WHERE company_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, companyID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]report.Holiday, 0)
	for rows.Next() {
		var h report.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}

	return holidays, nil
}

// ListActiveCompanyIDs implements report.AttendanceReportRepository.
func (r *attendanceReportRepository) ListActiveCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT company_id::text
		FROM employees
		WHERE employment_status = 'active' AND deleted_at IS NULL
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Snapshot implements report.AttendanceReportRepository.
func (r *attendanceReportRepository) Snapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithSnapshot(ctx, r.db, fn)
}
