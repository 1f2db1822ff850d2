package service_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/jobtrack/backend/app/repository"
	"github.com/jobtrack/backend/app/service"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	ghostStaleQuery            = `(?s)UPDATE job_applications ja\s+JOIN users u ON u\.id = ja\.user_id\s+SET ja\.status = 'ghosted', ja\.updated_at = \?\s+WHERE ja\.status = 'applied' AND u\.auto_ghost = 1 AND ja\.updated_at < \?`
	findDueRemindersQuery      = `(?s)SELECT i\.id, i\.scheduled_at, u\.email, u\.first_name, ja\.position_name, ja\.employer_name\s+FROM interviews i\s+JOIN users u ON u\.id = i\.user_id\s+JOIN job_applications ja ON ja\.id = i\.application_id\s+WHERE i\.reminder_sent = 0 AND i\.scheduled_at >= \? AND i\.scheduled_at < \?`
	markReminderSentQuery      = `UPDATE interviews SET reminder_sent = 1, updated_at = \? WHERE id = \?`
	deleteExpiredTokensQuery   = `DELETE FROM action_tokens WHERE expires_at <= \?`
	deleteExpiredSessionsQuery = `DELETE FROM sessions WHERE expires_at <= \?`
)

var reminderColumns = []string{"id", "scheduled_at", "email", "first_name", "position_name", "employer_name"}

func newSweeps(t *testing.T, mailer service.Mailer) (*service.SweepService, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, cleanup := newMockDB(t)
	cfg := testConfig()
	sweeps := service.NewSweepService(
		repository.NewApplicationRepository(db),
		repository.NewInterviewRepository(db),
		service.NewTokenService(repository.NewActionTokenRepository(db)),
		service.NewSessionService(repository.NewSessionRepository(db), repository.NewUserRepository(db), cfg.SessionTTL),
		mailer,
		cfg,
	)
	return sweeps, mock, cleanup
}

// timeNear matches a time argument within a minute of the expected instant.
type timeNear struct {
	want time.Time
}

func (m timeNear) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	return ok && ts.Sub(m.want).Abs() < time.Minute
}

func TestSweepService_GhostStaleApplications(t *testing.T) {
	sweeps, mock, cleanup := newSweeps(t, &mockMailer{})
	defer cleanup()

	// The cutoff sits exactly one threshold behind now, so an application
	// touched one day inside the window is left alone by the WHERE clause.
	cutoff := time.Now().Add(-testConfig().GhostingThreshold)
	mock.ExpectExec(ghostStaleQuery).
		WithArgs(sqlmock.AnyArg(), timeNear{want: cutoff}).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := sweeps.GhostStaleApplications(context.Background()); err != nil {
		t.Fatalf("ghosting sweep failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSweepService_SendInterviewReminders(t *testing.T) {
	mailer := &mockMailer{}
	sweeps, mock, cleanup := newSweeps(t, mailer)
	defer cleanup()

	tomorrow := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery(findDueRemindersQuery).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(reminderColumns).
			AddRow(uint64(3), tomorrow, "ada@example.com", "Ada", "Backend Engineer", "Initech").
			AddRow(uint64(4), tomorrow, "grace@example.com", "Grace", "SRE", "Globex"))
	mock.ExpectExec(markReminderSentQuery).
		WithArgs(sqlmock.AnyArg(), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(markReminderSentQuery).
		WithArgs(sqlmock.AnyArg(), uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := sweeps.SendInterviewReminders(context.Background()); err != nil {
		t.Fatalf("reminder sweep failed: %v", err)
	}
	if len(mailer.reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(mailer.reminders))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSweepService_SendInterviewReminders_MailFailureLeavesRowUnmarked(t *testing.T) {
	mailer := &mockMailer{err: errors.New("smtp down")}
	sweeps, mock, cleanup := newSweeps(t, mailer)
	defer cleanup()

	tomorrow := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery(findDueRemindersQuery).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(reminderColumns).
			AddRow(uint64(3), tomorrow, "ada@example.com", "Ada", "Backend Engineer", "Initech"))

	// Send failed: reminder_sent stays 0 so the next run retries.
	if err := sweeps.SendInterviewReminders(context.Background()); err != nil {
		t.Fatalf("reminder sweep failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSweepService_PurgeExpired(t *testing.T) {
	sweeps, mock, cleanup := newSweeps(t, &mockMailer{})
	defer cleanup()

	mock.ExpectExec(deleteExpiredTokensQuery).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(deleteExpiredSessionsQuery).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := sweeps.PurgeExpired(context.Background()); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
