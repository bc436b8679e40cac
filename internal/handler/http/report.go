package http

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-report-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/xlsx"
	"github.com/go-chi/chi/v5"
)

// ArchiveKeyHeader names the archived copy of an exported report.
const ArchiveKeyHeader = "X-Report-Archive-Key"

type ReportHandler interface {
	// ExportAttendanceReport streams the spreadsheet
	ExportAttendanceReport(w http.ResponseWriter, r *http.Request)

	// GetAttendanceSummary returns the aggregates as JSON
	GetAttendanceSummary(w http.ResponseWriter, r *http.Request)

	// DownloadArchivedReport serves a previously archived spreadsheet
	DownloadArchivedReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func parseReportRequest(r *http.Request) report.AttendanceReportRequest {
	query := r.URL.Query()
	req := report.AttendanceReportRequest{
		DateFrom: query.Get("date_from"),
		DateTo:   query.Get("date_to"),
	}
	if query.Has("department") {
		department := query.Get("department")
		req.Department = &department
	}
	return req
}

// ExportAttendanceReport handles GET /reports/attendance/export
func (h *reportHandlerImpl) ExportAttendanceReport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.GenerateAttendanceReport(r.Context(), parseReportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if file.ArchiveKey != "" {
		w.Header().Set(ArchiveKeyHeader, file.ArchiveKey)
	}
	response.Attachment(w, file.FileName, file.ContentType, file.Data)
}

// GetAttendanceSummary handles GET /reports/attendance/summary
func (h *reportHandlerImpl) GetAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.GetAttendanceSummary(r.Context(), parseReportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// DownloadArchivedReport handles GET /reports/attendance/archive/*
func (h *reportHandlerImpl) DownloadArchivedReport(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		response.BadRequest(w, "archive key is required", nil)
		return
	}

	rc, fileName, err := h.reportService.DownloadArchivedReport(r.Context(), key)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	response.StreamAttachment(w, fileName, contentTypeFor(fileName), rc)
}

func contentTypeFor(fileName string) string {
	if strings.EqualFold(path.Ext(fileName), "."+xlsx.Extension) {
		return xlsx.ContentType
	}
	if ct := mime.TypeByExtension(path.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
