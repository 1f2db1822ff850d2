package controller_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jobtrack/backend/app/controller"
	"github.com/jobtrack/backend/app/repository"
	"github.com/jobtrack/backend/app/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
)

func newTrackerControllers(t *testing.T) (*controller.ApplicationController, *controller.InterviewController, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	tracker := service.NewTrackerService(
		repository.NewApplicationRepository(db),
		repository.NewInterviewRepository(db),
	)
	return controller.NewApplicationController(tracker), controller.NewInterviewController(tracker), mock, func() { _ = db.Close() }
}

// loggedInContext builds an echo context carrying the user id the session
// middleware would have set.
func loggedInContext(t *testing.T, method, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e := echo.New()
	ctx := e.NewContext(req, rec)
	ctx.Set("user_id", uint64(1))
	return ctx, rec
}

func TestCreateApplication(t *testing.T) {
	applications, _, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	mock.ExpectExec(insertApplicationQuery).
		WithArgs(
			uint64(1),
			"Backend Engineer",
			"Initech",
			sqlmock.AnyArg(),
			sql.NullString{String: "full-time", Valid: true},
			sql.NullString{},
			sql.NullString{},
			sql.NullString{},
			sql.NullString{String: "remote", Valid: true},
			"applied",
			sql.NullString{},
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(9, 1))

	ctx, rec := loggedInContext(t, http.MethodPost, "/applications", map[string]string{
		"position_name":    "Backend Engineer",
		"employer_name":    "Initech",
		"application_date": "2026-08-01",
		"employment_type":  "full-time",
		"work_mode":        "remote",
	})

	if err := applications.Create(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"applied"`) {
		t.Fatalf("expected default status in body: %s", rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateApplication_MissingFields(t *testing.T) {
	applications, _, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	ctx, rec := loggedInContext(t, http.MethodPost, "/applications", map[string]string{
		"position_name": "Backend Engineer",
	})

	if err := applications.Create(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateApplication_BadDate(t *testing.T) {
	applications, _, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	ctx, rec := loggedInContext(t, http.MethodPost, "/applications", map[string]string{
		"position_name":    "Backend Engineer",
		"employer_name":    "Initech",
		"application_date": "01-08-2026",
	})

	if err := applications.Create(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListApplications_PassesFilter(t *testing.T) {
	applications, _, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`(?s)FROM job_applications WHERE user_id = \?\s+AND \(position_name LIKE \? OR employer_name LIKE \? OR status LIKE \?\) AND status = \? ORDER BY position_name DESC`).
		WithArgs(uint64(1), "%tech%", "%tech%", "%tech%", "applied").
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			uint64(9), uint64(1), "Backend Engineer", "Initech", now,
			sql.NullString{}, sql.NullString{}, sql.NullString{}, sql.NullString{}, sql.NullString{},
			"applied", sql.NullString{}, now, now,
		))

	ctx, rec := loggedInContext(t, http.MethodGet, "/applications?search=tech&status=applied&sort=position_name", nil)

	if err := applications.List(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"employer_name":"Initech"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetApplication_NotFound(t *testing.T) {
	applications, _, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	mock.ExpectQuery(findApplicationQuery).
		WithArgs(uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	ctx, rec := loggedInContext(t, http.MethodGet, "/applications/9", nil)
	ctx.SetParamNames("id")
	ctx.SetParamValues("9")

	if err := applications.Get(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetApplication_InvalidID(t *testing.T) {
	applications, _, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	ctx, rec := loggedInContext(t, http.MethodGet, "/applications/abc", nil)
	ctx.SetParamNames("id")
	ctx.SetParamValues("abc")

	if err := applications.Get(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateInterview_ApplicationNotFound(t *testing.T) {
	_, interviews, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	mock.ExpectQuery(findApplicationQuery).
		WithArgs(uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	ctx, rec := loggedInContext(t, http.MethodPost, "/interviews", map[string]any{
		"application_id": 9,
		"scheduled_at":   time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"kind":           "technical",
	})

	if err := interviews.Create(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateInterview(t *testing.T) {
	_, interviews, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	now := time.Now()
	scheduledAt := now.Add(48 * time.Hour).UTC().Truncate(time.Second)

	mock.ExpectQuery(findApplicationQuery).
		WithArgs(uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			uint64(9), uint64(1), "Backend Engineer", "Initech", now,
			sql.NullString{}, sql.NullString{}, sql.NullString{}, sql.NullString{}, sql.NullString{},
			"applied", sql.NullString{}, now, now,
		))
	mock.ExpectExec(insertInterviewQuery).
		WithArgs(
			uint64(1),
			uint64(9),
			sqlmock.AnyArg(),
			sql.NullString{String: "technical", Valid: true},
			sql.NullString{},
			sql.NullString{},
			false,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(3, 1))

	ctx, rec := loggedInContext(t, http.MethodPost, "/interviews", map[string]any{
		"application_id": 9,
		"scheduled_at":   scheduledAt.Format(time.RFC3339),
		"kind":           "technical",
	})

	if err := interviews.Create(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"application_id":9`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteInterview_NotFound(t *testing.T) {
	_, interviews, mock, cleanup := newTrackerControllers(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM interviews WHERE id = \? AND user_id = \?`).
		WithArgs(uint64(3), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx, rec := loggedInContext(t, http.MethodDelete, "/interviews/3", nil)
	ctx.SetParamNames("id")
	ctx.SetParamValues("3")

	if err := interviews.Delete(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
