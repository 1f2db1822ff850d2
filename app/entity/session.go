package entity

import (
	"database/sql"
	"time"
)

// Session binds an opaque identifier sent to the client to a minimal
// snapshot of the authenticated user.
type Session struct {
	ID        string
	UserID    uint64
	FirstName string
	LastName  string
	Gender    sql.NullString
	ExpiresAt time.Time
	CreatedAt time.Time
}
