package report

import "errors"

var (
	ErrInvalidDateRange       = errors.New("date_to must not be before date_from")
	ErrDateRangeTooLong       = errors.New("date range exceeds the maximum report period")
	ErrCompanyContextMissing  = errors.New("company_id claim is missing or invalid")
	ErrArchivedReportNotFound = errors.New("archived report not found")
	ErrReportGenerationFailed = errors.New("document generation failed")
)
