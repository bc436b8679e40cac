package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/xlsx"
	reportService "github.com/cmlabs-hris/hris-report-go/internal/service/report"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const dateLayout = "2006-01-02"

// dayRecord is one entry of the input file. Dates are YYYY-MM-DD.
type dayRecord struct {
	Date      string              `json:"date"`
	IsWeekend bool                `json:"is_weekend"`
	IsHoliday bool                `json:"is_holiday"`
	Employees []observationRecord `json:"employees"`
}

type observationRecord struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Department   string          `json:"department"`
	Status       string          `json:"status"`
	CheckIn      *time.Time      `json:"check_in"`
	CheckOut     *time.Time      `json:"check_out"`
	HoursWorked  decimal.Decimal `json:"hours_worked"`
}

func main() {
	app := &cli.App{
		Name:            "attendance-report",
		Usage:           "compile an attendance spreadsheet from a JSON dump of daily records",
		UsageText:       "attendance-report --input days.json [options]",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "JSON file with an array of days, `PATH` or - for stdin",
				Required: true,
			},
			&cli.StringFlag{
				Name:        "from",
				Usage:       "first report date `YYYY-MM-DD`",
				DefaultText: "first date in input",
			},
			&cli.StringFlag{
				Name:        "to",
				Usage:       "last report date `YYYY-MM-DD`",
				DefaultText: "last date in input",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output `DIR`",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "timezone",
				Aliases: []string{"tz"},
				Usage:   "IANA zone used for clock times",
				EnvVars: []string{"REPORT_TIMEZONE"},
				Value:   "UTC",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
		},
		Action: compileAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("attendance-report failed", "error", err)
		os.Exit(1)
	}
}

func compileAction(c *cli.Context) error {
	slog.SetDefault(logger.New(c.App.ErrWriter, "attendance-report", "cli", c.String("log-level")))

	loc, err := time.LoadLocation(c.String("timezone"))
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	var in io.Reader = c.App.Reader
	if path := c.String("input"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	req, err := readRequest(in, c.String("from"), c.String("to"), loc)
	if err != nil {
		return err
	}

	path, compiled, err := compileToDir(req, c.String("out"), loc, time.Now())
	if err != nil {
		return err
	}

	o := compiled.Overall
	fmt.Fprintf(c.App.Writer, "%s\n", path)
	fmt.Fprintf(c.App.Writer, "total=%d attending=%d present=%d graced=%d late=%d absent=%d on_leave=%d departments=%d coerced=%d\n",
		o.Total, o.Attending, o.Present, o.Graced, o.Late, o.Absent, o.OnLeave, len(compiled.Departments), compiled.Coercions)
	return nil
}

// readRequest decodes the input days. Missing bounds default to the first
// and last input date.
func readRequest(r io.Reader, from, to string, loc *time.Location) (report.ReportRequest, error) {
	var records []dayRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return report.ReportRequest{}, fmt.Errorf("failed to decode input: %w", err)
	}

	days := make([]report.DaySummary, 0, len(records))
	for i, rec := range records {
		date, err := time.ParseInLocation(dateLayout, rec.Date, loc)
		if err != nil {
			return report.ReportRequest{}, fmt.Errorf("day %d: invalid date %q", i, rec.Date)
		}
		day := report.DaySummary{
			Date:      date,
			IsWeekend: rec.IsWeekend,
			IsHoliday: rec.IsHoliday,
			Employees: make([]report.AttendanceObservation, 0, len(rec.Employees)),
		}
		for _, e := range rec.Employees {
			day.Employees = append(day.Employees, report.AttendanceObservation{
				Date:         date,
				EmployeeID:   e.EmployeeID,
				EmployeeName: e.EmployeeName,
				Department:   e.Department,
				Status:       report.Status(e.Status),
				CheckIn:      e.CheckIn,
				CheckOut:     e.CheckOut,
				HoursWorked:  e.HoursWorked,
			})
		}
		days = append(days, day)
	}

	req := report.ReportRequest{Days: days}
	if len(days) > 0 {
		req.DateFrom = days[0].Date
		req.DateTo = days[len(days)-1].Date
	}

	var err error
	if req.DateFrom, err = parseBound("from", from, req.DateFrom, loc); err != nil {
		return report.ReportRequest{}, err
	}
	if req.DateTo, err = parseBound("to", to, req.DateTo, loc); err != nil {
		return report.ReportRequest{}, err
	}
	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return report.ReportRequest{}, fmt.Errorf("--from and --to are required when the input has no days")
	}
	if req.DateTo.Before(req.DateFrom) {
		return report.ReportRequest{}, report.ErrInvalidDateRange
	}
	return req, nil
}

func parseBound(name, value string, fallback time.Time, loc *time.Location) (time.Time, error) {
	if validator.IsEmpty(value) {
		return fallback, nil
	}
	if _, ok := validator.IsValidDate(value); !ok {
		return time.Time{}, fmt.Errorf("--%s must be in YYYY-MM-DD format", name)
	}
	return time.ParseInLocation(dateLayout, value, loc)
}

// compileToDir compiles req and writes the spreadsheet into dir under its
// suggested file name.
func compileToDir(req report.ReportRequest, dir string, loc *time.Location, now time.Time) (string, report.CompiledReport, error) {
	serializer := xlsx.NewSerializer()
	svc := reportService.NewReportService(nil, serializer, nil, nil, reportService.Options{Location: loc})

	compiled := svc.Compile(req, now)
	if compiled.Coercions > 0 {
		slog.Warn("Coerced malformed attendance records", "count", compiled.Coercions)
	}

	data, err := serializer.Serialize(compiled.Workbook)
	if err != nil {
		return "", compiled, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", compiled, fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, compiled.FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", compiled, fmt.Errorf("failed to write report: %w", err)
	}
	return path, compiled, nil
}
