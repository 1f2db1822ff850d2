package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jobtrack/backend/app/entity"
	"github.com/jobtrack/backend/app/repository"
)

type actionTokenRepository interface {
	Create(ctx context.Context, token *entity.ActionToken) error
	FindValid(ctx context.Context, token string, kind entity.TokenKind, now time.Time) (*entity.ActionToken, error)
	Delete(ctx context.Context, id uint64) (int64, error)
	DeleteByUserAndKind(ctx context.Context, userID uint64, kind entity.TokenKind) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenService issues and consumes single-use action tokens.
type TokenService struct {
	tokens actionTokenRepository
}

func NewTokenService(tokens *repository.ActionTokenRepository) *TokenService {
	return &TokenService{tokens: tokens}
}

// Issue stores a fresh random token for the user and returns it.
func (s *TokenService) Issue(ctx context.Context, userID uint64, kind entity.TokenKind, ttl time.Duration) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	record := &entity.ActionToken{
		UserID:    userID,
		Token:     token,
		Kind:      kind,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", err
	}

	return token, nil
}

// Consume validates kind and expiry, deletes the row, and returns the owning
// user id. The delete claims the token: a second consume, or a concurrent
// one that loses the race, gets ErrInvalidToken.
func (s *TokenService) Consume(ctx context.Context, token string, kind entity.TokenKind) (uint64, error) {
	record, err := s.tokens.FindValid(ctx, token, kind, time.Now())
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, ErrInvalidToken
	}

	deleted, err := s.tokens.Delete(ctx, record.ID)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrInvalidToken
	}

	return record.UserID, nil
}

// Lookup validates kind and expiry without claiming the token. Used when
// the row's deletion belongs to a larger transaction.
func (s *TokenService) Lookup(ctx context.Context, token string, kind entity.TokenKind) (*entity.ActionToken, error) {
	return s.tokens.FindValid(ctx, token, kind, time.Now())
}

// RevokePrior drops all live tokens of a kind for the user, so at most one
// outstanding token of that kind exists after the next Issue.
func (s *TokenService) RevokePrior(ctx context.Context, userID uint64, kind entity.TokenKind) error {
	return s.tokens.DeleteByUserAndKind(ctx, userID, kind)
}

func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, time.Now())
}

func generateToken() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}
	return hex.EncodeToString(secret), nil
}
