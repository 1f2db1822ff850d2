package entity

import (
	"database/sql"
	"time"
)

const (
	ApplicationStatusApplied = "applied"
	ApplicationStatusGhosted = "ghosted"
)

type JobApplication struct {
	ID              uint64
	UserID          uint64
	PositionName    string
	EmployerName    string
	ApplicationDate time.Time
	EmploymentType  sql.NullString
	Source          sql.NullString
	JobDescription  sql.NullString
	JobLink         sql.NullString
	WorkMode        sql.NullString
	Status          string
	Notes           sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Interview struct {
	ID            uint64
	UserID        uint64
	ApplicationID uint64
	ScheduledAt   time.Time
	Kind          sql.NullString
	Location      sql.NullString
	Notes         sql.NullString
	ReminderSent  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
