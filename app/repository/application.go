package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jobtrack/backend/app/entity"
)

type ApplicationRepository struct {
	db DBTX
}

func NewApplicationRepository(db DBTX) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// ListFilter narrows and orders a user's applications. Sort is matched
// against a fixed column whitelist; anything else falls back to created_at.
type ListFilter struct {
	Search     string
	Status     string
	Sort       string
	Descending bool
}

var sortColumns = map[string]string{
	"position_name": "position_name",
	"employer_name": "employer_name",
	"created_at":    "created_at",
}

const applicationColumns = `id, user_id, position_name, employer_name, application_date, employment_type, source, job_description, job_link, work_mode, status, notes, created_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, app *entity.JobApplication) error {
	query := `
		INSERT INTO job_applications (user_id, position_name, employer_name, application_date, employment_type, source, job_description, job_link, work_mode, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		app.UserID,
		app.PositionName,
		app.EmployerName,
		app.ApplicationDate,
		app.EmploymentType,
		app.Source,
		app.JobDescription,
		app.JobLink,
		app.WorkMode,
		app.Status,
		app.Notes,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = uint64(id)
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id, userID uint64) (*entity.JobApplication, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM job_applications WHERE id = ? AND user_id = ?
	`
	app := &entity.JobApplication{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&app.ID,
		&app.UserID,
		&app.PositionName,
		&app.EmployerName,
		&app.ApplicationDate,
		&app.EmploymentType,
		&app.Source,
		&app.JobDescription,
		&app.JobLink,
		&app.WorkMode,
		&app.Status,
		&app.Notes,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uint64, filter ListFilter) ([]*entity.JobApplication, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM job_applications WHERE user_id = ?
	`
	args := []any{userID}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query += ` AND (position_name LIKE ? OR employer_name LIKE ? OR status LIKE ?)`
		args = append(args, pattern, pattern, pattern)
	}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}

	if column, ok := sortColumns[filter.Sort]; ok {
		if filter.Descending {
			query += ` ORDER BY ` + column + ` DESC`
		} else {
			query += ` ORDER BY ` + column + ` ASC`
		}
	} else {
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*entity.JobApplication
	for rows.Next() {
		app := &entity.JobApplication{}
		if err := rows.Scan(
			&app.ID,
			&app.UserID,
			&app.PositionName,
			&app.EmployerName,
			&app.ApplicationDate,
			&app.EmploymentType,
			&app.Source,
			&app.JobDescription,
			&app.JobLink,
			&app.WorkMode,
			&app.Status,
			&app.Notes,
			&app.CreatedAt,
			&app.UpdatedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepository) Update(ctx context.Context, app *entity.JobApplication) (int64, error) {
	query := `
		UPDATE job_applications SET
			position_name = ?,
			employer_name = ?,
			application_date = ?,
			employment_type = ?,
			source = ?,
			job_description = ?,
			job_link = ?,
			work_mode = ?,
			status = ?,
			notes = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	app.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		app.PositionName,
		app.EmployerName,
		app.ApplicationDate,
		app.EmploymentType,
		app.Source,
		app.JobDescription,
		app.JobLink,
		app.WorkMode,
		app.Status,
		app.Notes,
		app.UpdatedAt,
		app.ID,
		app.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ApplicationRepository) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	query := `DELETE FROM job_applications WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ApplicationRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM job_applications WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// GhostStale flips applied → ghosted in one set-based statement for owners
// who opted in, once an application has gone untouched past the cutoff.
func (r *ApplicationRepository) GhostStale(ctx context.Context, cutoff, now time.Time) (int64, error) {
	query := `
		UPDATE job_applications ja
		JOIN users u ON u.id = ja.user_id
		SET ja.status = 'ghosted', ja.updated_at = ?
		WHERE ja.status = 'applied' AND u.auto_ghost = 1 AND ja.updated_at < ?
	`
	result, err := r.db.ExecContext(ctx, query, now, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
