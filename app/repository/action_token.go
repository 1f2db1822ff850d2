package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jobtrack/backend/app/entity"
)

type ActionTokenRepository struct {
	db DBTX
}

func NewActionTokenRepository(db DBTX) *ActionTokenRepository {
	return &ActionTokenRepository{db: db}
}

func (r *ActionTokenRepository) Create(ctx context.Context, token *entity.ActionToken) error {
	query := `
		INSERT INTO action_tokens (user_id, token, kind, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		token.UserID,
		token.Token,
		string(token.Kind),
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = uint64(id)
	return nil
}

// FindValid returns the token row only when kind matches and the token has
// not expired at the given instant. Expired rows are invisible here even if
// the purge has not run yet.
func (r *ActionTokenRepository) FindValid(ctx context.Context, token string, kind entity.TokenKind, now time.Time) (*entity.ActionToken, error) {
	query := `
		SELECT id, user_id, token, kind, expires_at, created_at
		FROM action_tokens WHERE token = ? AND kind = ? AND expires_at > ?
	`
	at := &entity.ActionToken{}
	err := r.db.QueryRowContext(ctx, query, token, string(kind), now).Scan(
		&at.ID,
		&at.UserID,
		&at.Token,
		&at.Kind,
		&at.ExpiresAt,
		&at.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return at, nil
}

// Delete removes a token by id and reports whether a row was actually
// deleted, so a concurrent consumer loses the race cleanly.
func (r *ActionTokenRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	query := `DELETE FROM action_tokens WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ActionTokenRepository) DeleteByUserAndKind(ctx context.Context, userID uint64, kind entity.TokenKind) error {
	query := `DELETE FROM action_tokens WHERE user_id = ? AND kind = ?`
	_, err := r.db.ExecContext(ctx, query, userID, string(kind))
	return err
}

func (r *ActionTokenRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM action_tokens WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *ActionTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM action_tokens WHERE expires_at <= ?`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
