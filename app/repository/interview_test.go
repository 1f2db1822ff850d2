package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jobtrack/backend/app/entity"
	"github.com/jobtrack/backend/app/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	insertInterviewQuery   = `(?s)INSERT INTO interviews \(user_id, application_id, scheduled_at, kind, location, notes, reminder_sent, created_at, updated_at\)\s+VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?\)`
	listInterviewsQuery    = `(?s)SELECT id, user_id, application_id, scheduled_at, kind, location, notes, reminder_sent, created_at, updated_at\s+FROM interviews WHERE user_id = \? ORDER BY scheduled_at ASC`
	findDueRemindersQuery  = `(?s)SELECT i\.id, i\.scheduled_at, u\.email, u\.first_name, ja\.position_name, ja\.employer_name\s+FROM interviews i\s+JOIN users u ON u\.id = i\.user_id\s+JOIN job_applications ja ON ja\.id = i\.application_id\s+WHERE i\.reminder_sent = 0 AND i\.scheduled_at >= \? AND i\.scheduled_at < \?`
	markReminderSentQuery  = `UPDATE interviews SET reminder_sent = 1, updated_at = \? WHERE id = \?`
	deleteInterviewQuery   = `DELETE FROM interviews WHERE id = \? AND user_id = \?`
	deleteInterviewsByUser = `DELETE FROM interviews WHERE user_id = \?`
)

var interviewColumns = []string{
	"id",
	"user_id",
	"application_id",
	"scheduled_at",
	"kind",
	"location",
	"notes",
	"reminder_sent",
	"created_at",
	"updated_at",
}

var reminderColumns = []string{"id", "scheduled_at", "email", "first_name", "position_name", "employer_name"}

func TestInterviewRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewInterviewRepository(db)
	now := time.Now()
	iv := &entity.Interview{
		UserID:        1,
		ApplicationID: 9,
		ScheduledAt:   now.Add(48 * time.Hour),
		Kind:          sql.NullString{String: "technical", Valid: true},
		Location:      sql.NullString{String: "onsite", Valid: true},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mock.ExpectExec(insertInterviewQuery).
		WithArgs(
			iv.UserID,
			iv.ApplicationID,
			iv.ScheduledAt,
			iv.Kind,
			iv.Location,
			iv.Notes,
			iv.ReminderSent,
			iv.CreatedAt,
			iv.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(3, 1))

	if err := repo.Create(context.Background(), iv); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if iv.ID != 3 {
		t.Fatalf("expected ID 3, got %d", iv.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInterviewRepository_ListByUser(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewInterviewRepository(db)
	now := time.Now()

	mock.ExpectQuery(listInterviewsQuery).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(interviewColumns).AddRow(
			uint64(3),
			uint64(1),
			uint64(9),
			now.Add(48*time.Hour),
			"technical",
			sql.NullString{},
			sql.NullString{},
			false,
			now,
			now,
		))

	interviews, err := repo.ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(interviews) != 1 || interviews[0].ApplicationID != 9 {
		t.Fatalf("unexpected result: %+v", interviews)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInterviewRepository_FindDueReminders(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewInterviewRepository(db)
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(findDueRemindersQuery).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows(reminderColumns).AddRow(
			uint64(3),
			from.Add(10*time.Hour),
			"ada@example.com",
			"Ada",
			"Backend Engineer",
			"Initech",
		))

	due, err := repo.FindDueReminders(context.Background(), from, to)
	if err != nil {
		t.Fatalf("find due reminders failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(due))
	}
	if due[0].InterviewID != 3 || due[0].Email != "ada@example.com" || due[0].EmployerName != "Initech" {
		t.Fatalf("unexpected reminder: %+v", due[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInterviewRepository_MarkReminderSent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewInterviewRepository(db)

	mock.ExpectExec(markReminderSentQuery).
		WithArgs(sqlmock.AnyArg(), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkReminderSent(context.Background(), 3); err != nil {
		t.Fatalf("mark reminder sent failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInterviewRepository_Delete_ScopedToUser(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewInterviewRepository(db)

	mock.ExpectExec(deleteInterviewQuery).
		WithArgs(uint64(3), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows for another user's interview, got %d", affected)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
