package report

import (
	"time"

	"github.com/cmlabs-hris/hris-report-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/workbook"
)

const dateLayout = "2006-01-02"

// ========================================
// ATTENDANCE REPORT REQUEST
// ========================================

type AttendanceReportRequest struct {
	DateFrom   string  `json:"date_from"`
	DateTo     string  `json:"date_to"`
	Department *string `json:"department,omitempty"`
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DateFrom) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_from",
			Message: "date_from is required",
		})
	}

	if validator.IsEmpty(r.DateTo) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_to",
			Message: "date_to is required",
		})
	}

	if r.DateFrom != "" && r.DateTo != "" {
		from, validFrom := validator.IsValidDate(r.DateFrom)
		if !validFrom {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be in YYYY-MM-DD format",
			})
		}

		to, validTo := validator.IsValidDate(r.DateTo)
		if !validTo {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be in YYYY-MM-DD format",
			})
		}

		if validFrom && validTo && from.After(to) {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must not be before date_from",
			})
		}
	}

	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must not be blank",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period parses the validated range as midnight dates in loc.
func (r *AttendanceReportRequest) Period(loc *time.Location) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(dateLayout, r.DateFrom, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.ParseInLocation(dateLayout, r.DateTo, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// ========================================
// COMPILED REPORT
// ========================================

// CompiledReport is the output of one pure compile run.
type CompiledReport struct {
	DateFrom    time.Time
	DateTo      time.Time
	GeneratedAt time.Time
	Overall     OverallStats
	Departments []DepartmentStat
	Workbook    *workbook.Workbook
	FileName    string

	// Coercions counts malformed records that were normalized before aggregation.
	Coercions int
}

// AttendanceReportFile is a serialized report ready for download.
type AttendanceReportFile struct {
	FileName    string
	ContentType string
	Data        []byte
	ArchiveKey  string
}

// ========================================
// ATTENDANCE SUMMARY (JSON)
// ========================================

type AttendanceSummary struct {
	DateFrom    string              `json:"date_from"`
	DateTo      string              `json:"date_to"`
	GeneratedAt string              `json:"generated_at"`
	Overall     OverallStats        `json:"overall"`
	Departments []DepartmentSummary `json:"departments"`
}

type DepartmentSummary struct {
	DepartmentStat
	Tier string `json:"tier"`
}
