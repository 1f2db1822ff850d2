package entity

import "time"

// TokenKind names the account action a token authorizes.
type TokenKind string

const (
	TokenVerifyEmail   TokenKind = "verify_email"
	TokenResetPassword TokenKind = "reset_password"
	TokenDeleteAccount TokenKind = "delete_account"
)

// ActionToken is a single-use, time-limited credential. It is deleted on
// first successful consumption or by the periodic purge.
type ActionToken struct {
	ID        uint64
	UserID    uint64
	Token     string
	Kind      TokenKind
	ExpiresAt time.Time
	CreatedAt time.Time
}
