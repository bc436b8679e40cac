package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, report.ErrCompanyContextMissing):
		Forbidden(w, "Company context is required")
	case errors.Is(err, report.ErrInvalidDateRange):
		BadRequest(w, err.Error(), map[string]string{"date_to": err.Error()})
	case errors.Is(err, report.ErrDateRangeTooLong):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrArchivedReportNotFound):
		NotFound(w, "Archived report not found")
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("Attendance report generation failed", "error", err)
		InternalServerError(w, "Failed to generate attendance report")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
