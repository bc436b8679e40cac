package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/xlsx"
	reportService "github.com/cmlabs-hris/hris-report-go/internal/service/report"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestCompanyID = "0193a4f2-1111-7000-8000-000000000001"
)

type stubReportRepo struct {
	observations []report.AttendanceObservation
}

func (s *stubReportRepo) ListObservations(ctx context.Context, filter report.ObservationFilter) ([]report.AttendanceObservation, error) {
	return s.observations, nil
}

func (s *stubReportRepo) ListHolidays(ctx context.Context, companyID string, from, to time.Time) ([]report.Holiday, error) {
	return []report.Holiday{{Date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), Name: "Nyepi"}}, nil
}

func (s *stubReportRepo) ListActiveCompanyIDs(ctx context.Context) ([]string, error) {
	return []string{handlerTestCompanyID}, nil
}

func (s *stubReportRepo) Snapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type handlerFixture struct {
	router *chi.Mux
	jwt    *jwt.JWTService
}

func newHandlerFixture(t *testing.T) handlerFixture {
	t.Helper()
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC)
	repo := &stubReportRepo{observations: []report.AttendanceObservation{
		{Date: monday, EmployeeID: "2024-0001", EmployeeName: "Alice", Department: "Engineering", Status: report.StatusPresent, CheckIn: &checkIn},
		{Date: monday, EmployeeID: "2024-0002", EmployeeName: "Bob", Department: "Engineering", Status: report.StatusAbsent},
	}}

	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := reportService.NewReportService(repo, xlsx.NewSerializer(), archive, nil, reportService.Options{
		Location:       time.UTC,
		ArchiveEnabled: true,
	})
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")

	return handlerFixture{
		router: NewRouter(RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}}, jwtService, NewReportHandler(svc)),
		jwt:    jwtService,
	}
}

func (f handlerFixture) do(t *testing.T, role jwt.Role, companyID, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if role != "" {
		token, _, err := f.jwt.GenerateAccessToken("user-1", "user@example.com", companyID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// ===== EXPORT TESTS =====

func TestReportHandler_Export_Success(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, jwt.RoleManager, handlerTestCompanyID, "/api/v1/reports/attendance/export?date_from=2024-03-04&date_to=2024-03-11")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsx.ContentType, rec.Header().Get("Content-Type"))

	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Regexp(t, `^Attendance_Report_2024-03-04_to_2024-03-11_\d{4}-\d{2}-\d{2}\.xlsx$`, params["filename"])
	assert.NotEmpty(t, rec.Header().Get(ArchiveKeyHeader))

	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{"Summary", "Department Analysis", "Detailed Records"}, book.GetSheetList())

	rows, err := book.GetRows("Detailed Records")
	require.NoError(t, err)
	// title, header, Monday's 2 records, then Sat, Sun and the holiday Monday;
	// working days without records add nothing
	assert.Len(t, rows, 2+2+3)
	assert.Equal(t, "Alice", rows[2][2])
	assert.Equal(t, "01:00", rows[2][5])
	assert.Equal(t, "Holiday", rows[len(rows)-1][8])
}

func TestReportHandler_Export_ValidationError(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, jwt.RoleOwner, handlerTestCompanyID, "/api/v1/reports/attendance/export?date_from=2024-03-10&date_to=2024-03-01")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Details, "date_to")
}

func TestReportHandler_Export_RangeTooLong(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, jwt.RoleOwner, handlerTestCompanyID, "/api/v1/reports/attendance/export?date_from=2023-01-01&date_to=2024-12-31")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ===== ACCESS TESTS =====

func TestReportHandler_Access(t *testing.T) {
	f := newHandlerFixture(t)
	target := "/api/v1/reports/attendance/summary?date_from=2024-03-04&date_to=2024-03-08"

	assert.Equal(t, http.StatusUnauthorized, f.do(t, "", handlerTestCompanyID, target).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, jwt.RoleEmployee, handlerTestCompanyID, target).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, jwt.RoleManager, "", target).Code)
	assert.Equal(t, http.StatusOK, f.do(t, jwt.RoleManager, handlerTestCompanyID, target).Code)
}

// ===== SUMMARY TESTS =====

func TestReportHandler_Summary(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, jwt.RoleOwner, handlerTestCompanyID, "/api/v1/reports/attendance/summary?date_from=2024-03-04&date_to=2024-03-08&department=Engineering")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Success bool                     `json:"success"`
		Data    report.AttendanceSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Data.Overall.Total)
	assert.Equal(t, 1, body.Data.Overall.Attending)
	require.Len(t, body.Data.Departments, 1)
	assert.Equal(t, "Engineering", body.Data.Departments[0].Department)
	assert.Equal(t, 50.0, body.Data.Departments[0].Percentage)
	assert.Equal(t, "critical", body.Data.Departments[0].Tier)
}

// ===== ARCHIVE TESTS =====

func TestReportHandler_ArchiveRoundTrip(t *testing.T) {
	f := newHandlerFixture(t)

	export := f.do(t, jwt.RoleManager, handlerTestCompanyID, "/api/v1/reports/attendance/export?date_from=2024-03-04&date_to=2024-03-04")
	require.Equal(t, http.StatusOK, export.Code)
	key := export.Header().Get(ArchiveKeyHeader)
	require.NotEmpty(t, key)

	rec := f.do(t, jwt.RoleManager, handlerTestCompanyID, "/api/v1/reports/attendance/archive/"+key)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsx.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, export.Body.Bytes(), rec.Body.Bytes())

	other := f.do(t, jwt.RoleManager, "0193a4f2-9999-7000-8000-000000000009", "/api/v1/reports/attendance/archive/"+key)
	assert.Equal(t, http.StatusNotFound, other.Code)
}
