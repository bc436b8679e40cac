package report

import (
	"context"
	"io"
	"time"
)

// ReportService defines the interface for attendance report generation
type ReportService interface {
	// Compile runs the pure pipeline: normalize, aggregate, build the workbook.
	Compile(req ReportRequest, generatedAt time.Time) CompiledReport

	// GenerateAttendanceReport builds the spreadsheet for the company in ctx.
	GenerateAttendanceReport(ctx context.Context, req AttendanceReportRequest) (AttendanceReportFile, error)

	// GetAttendanceSummary returns the aggregates without rendering a document.
	GetAttendanceSummary(ctx context.Context, req AttendanceReportRequest) (AttendanceSummary, error)

	// DownloadArchivedReport opens a previously archived report.
	DownloadArchivedReport(ctx context.Context, key string) (io.ReadCloser, string, error)

	// ArchiveMonthlyReports stores last month's report for every active company.
	ArchiveMonthlyReports(ctx context.Context) error
}
