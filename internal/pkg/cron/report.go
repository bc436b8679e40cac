package cron

import (
	"context"
	"time"
)

// MonthlyArchiver stores last month's attendance reports.
type MonthlyArchiver interface {
	ArchiveMonthlyReports(ctx context.Context) error
}

type ReportJobs struct {
	archiver MonthlyArchiver
}

func NewReportJobs(archiver MonthlyArchiver) *ReportJobs {
	return &ReportJobs{archiver: archiver}
}

// RegisterJobs checks hourly; the archiver only acts in the first hour of a month.
func (j *ReportJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("archive_monthly_attendance_reports", 1*time.Hour, j.archiver.ArchiveMonthlyReports)
}
