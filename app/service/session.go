package service

import (
	"context"
	"time"

	"github.com/jobtrack/backend/app/entity"
	"github.com/jobtrack/backend/app/repository"

	"github.com/google/uuid"
)

type sessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID uint64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionUserLookup interface {
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
}

// SessionService manages server-side sessions keyed by an opaque identifier.
type SessionService struct {
	sessions sessionRepository
	users    sessionUserLookup
	ttl      time.Duration
}

func NewSessionService(sessions *repository.SessionRepository, users *repository.UserRepository, ttl time.Duration) *SessionService {
	return &SessionService{sessions: sessions, users: users, ttl: ttl}
}

func (s *SessionService) Establish(ctx context.Context, user *entity.User) (*entity.Session, error) {
	now := time.Now()
	session := &entity.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Gender:    user.Gender,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Current resolves a session id to its snapshot. The referenced user is
// re-checked on every call: a session whose user row is gone is destroyed
// and reported as logged-out, never returned as stale data.
func (s *SessionService) Current(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, nil
	}

	return session, nil
}

// Destroy is idempotent; destroying a missing session is not an error.
func (s *SessionService) Destroy(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// DestroyAllForUser drops every session of the user, used after password
// changes and resets.
func (s *SessionService) DestroyAllForUser(ctx context.Context, userID uint64) error {
	return s.sessions.DeleteByUserID(ctx, userID)
}

func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now())
}
