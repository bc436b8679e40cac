package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/workbook"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

const archivePrefix = "attendance"

// WorkbookSerializer turns an abstract workbook into a file.
type WorkbookSerializer interface {
	Serialize(wb *workbook.Workbook) ([]byte, error)
	Extension() string
	ContentType() string
}

type Options struct {
	Location       *time.Location
	GraceMinutes   int
	MaxRangeDays   int
	ArchiveEnabled bool
}

var _ report.ReportService = (*ReportServiceImpl)(nil)

type ReportServiceImpl struct {
	reportRepo report.AttendanceReportRepository
	serializer WorkbookSerializer
	archive    storage.FileStorage
	cache      report.SummaryCache
	builder    *DocumentBuilder
	opts       Options
	now        func() time.Time
}

// NewReportService wires the report pipeline. archive and cache may be nil.
func NewReportService(
	reportRepo report.AttendanceReportRepository,
	serializer WorkbookSerializer,
	archive storage.FileStorage,
	cache report.SummaryCache,
	opts Options,
) *ReportServiceImpl {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 366
	}
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		serializer: serializer,
		archive:    archive,
		cache:      cache,
		builder:    NewDocumentBuilder(opts.Location),
		opts:       opts,
		now:        time.Now,
	}
}

// getCompanyIDFromContext extracts company_id from JWT claims
func (s *ReportServiceImpl) getCompanyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", report.ErrCompanyContextMissing, err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", report.ErrCompanyContextMissing
	}

	return companyID, nil
}

// FileName is the suggested download name of a report.
func FileName(from, to, generatedAt time.Time, ext string) string {
	return fmt.Sprintf("Attendance_Report_%s_to_%s_%s.%s",
		from.Format(dateLayout), to.Format(dateLayout), generatedAt.Format(dateLayout), ext)
}

// Compile normalizes, aggregates and lays out one report. It never fails:
// malformed records are coerced and counted in Coercions.
func (s *ReportServiceImpl) Compile(req report.ReportRequest, generatedAt time.Time) report.CompiledReport {
	days, coercions := NormalizeDays(req.Days)
	overall, departments := Aggregate(days)

	wb := s.builder.Build(BuildInput{
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		GeneratedAt: generatedAt,
		Overall:     overall,
		Departments: departments,
		Days:        days,
	})

	return report.CompiledReport{
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		GeneratedAt: generatedAt,
		Overall:     overall,
		Departments: departments,
		Workbook:    wb,
		FileName:    FileName(req.DateFrom, req.DateTo, generatedAt.In(s.opts.Location), s.serializer.Extension()),
		Coercions:   coercions,
	}
}

// GenerateAttendanceReport builds the spreadsheet for the company in ctx
func (s *ReportServiceImpl) GenerateAttendanceReport(ctx context.Context, req report.AttendanceReportRequest) (report.AttendanceReportFile, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.AttendanceReportFile{}, err
	}

	return s.generate(ctx, companyID, req, s.opts.ArchiveEnabled)
}

func (s *ReportServiceImpl) generate(ctx context.Context, companyID string, req report.AttendanceReportRequest, archive bool) (report.AttendanceReportFile, error) {
	reportReq, err := s.loadRequest(ctx, companyID, req)
	if err != nil {
		return report.AttendanceReportFile{}, err
	}

	compiled := s.Compile(reportReq, s.now())
	s.logCoercions(companyID, compiled.DateFrom, compiled.DateTo, compiled.Coercions)

	data, err := s.serializer.Serialize(compiled.Workbook)
	if err != nil {
		return report.AttendanceReportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	file := report.AttendanceReportFile{
		FileName:    compiled.FileName,
		ContentType: s.serializer.ContentType(),
		Data:        data,
	}

	if archive && s.archive != nil {
		key := path.Join(archivePrefix, companyID, uuid.New().String(), compiled.FileName)
		if _, err := s.archive.Upload(ctx, bytes.NewReader(data), key, file.ContentType); err != nil {
			slog.Error("Failed to archive attendance report", "company_id", companyID, "file", compiled.FileName, "error", err)
		} else {
			file.ArchiveKey = key
		}
	}

	return file, nil
}

// GetAttendanceSummary returns the aggregates of the requested range
func (s *ReportServiceImpl) GetAttendanceSummary(ctx context.Context, req report.AttendanceReportRequest) (report.AttendanceSummary, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.AttendanceSummary{}, err
	}

	if err := s.validate(&req); err != nil {
		return report.AttendanceSummary{}, err
	}

	cacheKey := summaryCacheKey(companyID, req)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			slog.Warn("Attendance summary cache read failed", "key", cacheKey, "error", err)
		} else if ok {
			return *cached, nil
		}
	}

	reportReq, err := s.loadRequest(ctx, companyID, req)
	if err != nil {
		return report.AttendanceSummary{}, err
	}

	days, coercions := NormalizeDays(reportReq.Days)
	s.logCoercions(companyID, reportReq.DateFrom, reportReq.DateTo, coercions)
	overall, departments := Aggregate(days)

	summary := report.AttendanceSummary{
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		GeneratedAt: s.now().In(s.opts.Location).Format(time.RFC3339),
		Overall:     overall,
		Departments: make([]report.DepartmentSummary, 0, len(departments)),
	}
	for _, d := range departments {
		summary.Departments = append(summary.Departments, report.DepartmentSummary{
			DepartmentStat: d,
			Tier:           string(TierForRate(d.Percentage)),
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, summary); err != nil {
			slog.Warn("Attendance summary cache write failed", "key", cacheKey, "error", err)
		}
	}

	return summary, nil
}

// DownloadArchivedReport opens an archived report of the company in ctx
func (s *ReportServiceImpl) DownloadArchivedReport(ctx context.Context, key string) (io.ReadCloser, string, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return nil, "", err
	}

	if s.archive == nil {
		return nil, "", report.ErrArchivedReportNotFound
	}

	// attendance/<company>/<uuid>/<file>
	key = path.Clean(strings.TrimPrefix(key, "/"))
	parts := strings.Split(key, "/")
	if len(parts) != 4 || parts[0] != archivePrefix || parts[1] != companyID || !validator.IsValidUUID(parts[2]) {
		return nil, "", report.ErrArchivedReportNotFound
	}

	exists, err := s.archive.Exists(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check archived report: %w", err)
	}
	if !exists {
		return nil, "", report.ErrArchivedReportNotFound
	}

	rc, err := s.archive.Download(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open archived report: %w", err)
	}

	return rc, path.Base(key), nil
}

// ArchiveMonthlyReports stores last month's report for every active company.
// It only does work during the first hour of the first day of a month.
func (s *ReportServiceImpl) ArchiveMonthlyReports(ctx context.Context) error {
	now := s.now().In(s.opts.Location)
	if now.Day() != 1 || now.Hour() != 0 {
		return nil
	}

	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.opts.Location).AddDate(0, -1, 0)
	periodEnd := periodStart.AddDate(0, 1, -1)
	req := report.AttendanceReportRequest{
		DateFrom: periodStart.Format(dateLayout),
		DateTo:   periodEnd.Format(dateLayout),
	}

	companyIDs, err := s.reportRepo.ListActiveCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	slog.Info("Archiving monthly attendance reports", "companies", len(companyIDs), "date_from", req.DateFrom, "date_to", req.DateTo)

	var errs []error
	archived := 0
	for _, companyID := range companyIDs {
		file, err := s.generate(ctx, companyID, req, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}
		if file.ArchiveKey != "" {
			archived++
		}
	}

	slog.Info("Monthly attendance reports archived", "archived", archived, "failed", len(errs))
	return errors.Join(errs...)
}

func (s *ReportServiceImpl) validate(req *report.AttendanceReportRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	from, to, err := req.Period(s.opts.Location)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return report.ErrInvalidDateRange
	}
	if days := calendarDays(from, to); days > s.opts.MaxRangeDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", report.ErrDateRangeTooLong, days, s.opts.MaxRangeDays)
	}
	return nil
}

// loadRequest reads observations and holidays from one snapshot and lays
// them out as calendar days.
func (s *ReportServiceImpl) loadRequest(ctx context.Context, companyID string, req report.AttendanceReportRequest) (report.ReportRequest, error) {
	if err := s.validate(&req); err != nil {
		return report.ReportRequest{}, err
	}
	from, to, _ := req.Period(s.opts.Location)

	var (
		observations []report.AttendanceObservation
		holidays     []report.Holiday
	)
	err := s.reportRepo.Snapshot(ctx, func(ctx context.Context) error {
		var err error
		observations, err = s.reportRepo.ListObservations(ctx, report.ObservationFilter{
			CompanyID:    companyID,
			DateFrom:     from,
			DateTo:       to,
			Department:   req.Department,
			GraceMinutes: s.opts.GraceMinutes,
		})
		if err != nil {
			return fmt.Errorf("failed to get attendance data: %w", err)
		}

		holidays, err = s.reportRepo.ListHolidays(ctx, companyID, from, to)
		if err != nil {
			return fmt.Errorf("failed to get holidays: %w", err)
		}
		return nil
	})
	if err != nil {
		return report.ReportRequest{}, err
	}

	return report.ReportRequest{
		DateFrom: from,
		DateTo:   to,
		Days:     BuildDaySummaries(from, to, observations, holidays, s.opts.Location),
	}, nil
}

func (s *ReportServiceImpl) logCoercions(companyID string, from, to time.Time, coercions int) {
	if coercions == 0 {
		return
	}
	slog.Warn("Coerced malformed attendance records",
		"company_id", companyID,
		"date_from", from.Format(dateLayout),
		"date_to", to.Format(dateLayout),
		"count", coercions,
	)
}

func summaryCacheKey(companyID string, req report.AttendanceReportRequest) string {
	department := "*"
	if req.Department != nil {
		department = *req.Department
	}
	return strings.Join([]string{"attendance-summary", companyID, req.DateFrom, req.DateTo, department}, ":")
}
