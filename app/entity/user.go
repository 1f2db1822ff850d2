package entity

import (
	"database/sql"
	"time"
)

type User struct {
	ID           uint64
	FirstName    string
	LastName     string
	Gender       sql.NullString
	Email        string
	PasswordHash string
	IsVerified   bool
	AutoGhost    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
