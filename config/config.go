package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPHost string
	HTTPPort string
	MySQLDSN string

	LogLevel  string
	LogFormat string

	AppBaseURL string

	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	DeleteTokenTTL time.Duration
	SessionTTL     time.Duration

	GhostingThreshold time.Duration

	GhostingSchedule string
	ReminderSchedule string
	CleanupSchedule  string
	ScheduleTimezone string

	SMTP SMTPConfig

	PasswordPolicy PasswordPolicy
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireSpecial   bool
}

// Validate reports the first reason a candidate password fails the policy.
func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters long", p.MinLength)
	}

	var hasUpper, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && !unicode.IsSpace(ch):
			hasSpecial = true
		}
	}

	var missing []string
	if p.RequireUppercase && !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if p.RequireSpecial && !hasSpecial {
		missing = append(missing, "special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least one: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateSignup applies the policy plus the signup-only whitespace rule.
func (p PasswordPolicy) ValidateSignup(password string) error {
	if password != strings.TrimSpace(password) {
		return errors.New("password must not start or end with whitespace")
	}
	return p.Validate(password)
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		HTTPHost: getEnv("HTTP_HOST", ""),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		MySQLDSN: mysqlDSN,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),

		VerifyTokenTTL: getDurationEnv("VERIFY_TOKEN_TTL", time.Hour),
		ResetTokenTTL:  getDurationEnv("RESET_TOKEN_TTL", time.Hour),
		DeleteTokenTTL: getDurationEnv("DELETE_TOKEN_TTL", 24*time.Hour),
		SessionTTL:     getDurationEnv("SESSION_TTL", 24*time.Hour),

		GhostingThreshold: time.Duration(getIntEnv("GHOSTING_THRESHOLD_DAYS", 21)) * 24 * time.Hour,

		GhostingSchedule: getEnv("GHOSTING_SCHEDULE", "0 3 * * *"),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 8 * * *"),
		CleanupSchedule:  getEnv("CLEANUP_SCHEDULE", "30 3 * * *"),
		ScheduleTimezone: getEnv("SCHEDULE_TIMEZONE", "UTC"),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getIntEnv("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@jobtrack.local"),
		},

		PasswordPolicy: PasswordPolicy{
			MinLength:        getIntEnv("PASSWORD_MIN_LENGTH", 8),
			RequireUppercase: getBoolEnv("PASSWORD_REQUIRE_UPPERCASE", true),
			RequireSpecial:   getBoolEnv("PASSWORD_REQUIRE_SPECIAL", true),
		},
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

// Location resolves the scheduler timezone, falling back to UTC when the
// configured name does not resolve.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ScheduleTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
