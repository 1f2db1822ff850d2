package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jobtrack/backend/app/entity"
)

type InterviewRepository struct {
	db DBTX
}

func NewInterviewRepository(db DBTX) *InterviewRepository {
	return &InterviewRepository{db: db}
}

const interviewColumns = `id, user_id, application_id, scheduled_at, kind, location, notes, reminder_sent, created_at, updated_at`

// ReminderRow carries everything the reminder email needs in one join.
type ReminderRow struct {
	InterviewID  uint64
	ScheduledAt  time.Time
	Email        string
	FirstName    string
	PositionName string
	EmployerName string
}

func (r *InterviewRepository) Create(ctx context.Context, iv *entity.Interview) error {
	query := `
		INSERT INTO interviews (user_id, application_id, scheduled_at, kind, location, notes, reminder_sent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		iv.UserID,
		iv.ApplicationID,
		iv.ScheduledAt,
		iv.Kind,
		iv.Location,
		iv.Notes,
		iv.ReminderSent,
		iv.CreatedAt,
		iv.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	iv.ID = uint64(id)
	return nil
}

func (r *InterviewRepository) FindByID(ctx context.Context, id, userID uint64) (*entity.Interview, error) {
	query := `
		SELECT ` + interviewColumns + `
		FROM interviews WHERE id = ? AND user_id = ?
	`
	iv := &entity.Interview{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&iv.ID,
		&iv.UserID,
		&iv.ApplicationID,
		&iv.ScheduledAt,
		&iv.Kind,
		&iv.Location,
		&iv.Notes,
		&iv.ReminderSent,
		&iv.CreatedAt,
		&iv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (r *InterviewRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.Interview, error) {
	query := `
		SELECT ` + interviewColumns + `
		FROM interviews WHERE user_id = ? ORDER BY scheduled_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviews []*entity.Interview
	for rows.Next() {
		iv := &entity.Interview{}
		if err := rows.Scan(
			&iv.ID,
			&iv.UserID,
			&iv.ApplicationID,
			&iv.ScheduledAt,
			&iv.Kind,
			&iv.Location,
			&iv.Notes,
			&iv.ReminderSent,
			&iv.CreatedAt,
			&iv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		interviews = append(interviews, iv)
	}
	return interviews, rows.Err()
}

func (r *InterviewRepository) Update(ctx context.Context, iv *entity.Interview) (int64, error) {
	query := `
		UPDATE interviews SET
			application_id = ?,
			scheduled_at = ?,
			kind = ?,
			location = ?,
			notes = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	iv.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		iv.ApplicationID,
		iv.ScheduledAt,
		iv.Kind,
		iv.Location,
		iv.Notes,
		iv.UpdatedAt,
		iv.ID,
		iv.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *InterviewRepository) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	query := `DELETE FROM interviews WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *InterviewRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM interviews WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// FindDueReminders returns unreminded interviews scheduled inside [from, to).
func (r *InterviewRepository) FindDueReminders(ctx context.Context, from, to time.Time) ([]*ReminderRow, error) {
	query := `
		SELECT i.id, i.scheduled_at, u.email, u.first_name, ja.position_name, ja.employer_name
		FROM interviews i
		JOIN users u ON u.id = i.user_id
		JOIN job_applications ja ON ja.id = i.application_id
		WHERE i.reminder_sent = 0 AND i.scheduled_at >= ? AND i.scheduled_at < ?
	`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []*ReminderRow
	for rows.Next() {
		row := &ReminderRow{}
		if err := rows.Scan(
			&row.InterviewID,
			&row.ScheduledAt,
			&row.Email,
			&row.FirstName,
			&row.PositionName,
			&row.EmployerName,
		); err != nil {
			return nil, err
		}
		due = append(due, row)
	}
	return due, rows.Err()
}

func (r *InterviewRepository) MarkReminderSent(ctx context.Context, id uint64) error {
	query := `UPDATE interviews SET reminder_sent = 1, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}
