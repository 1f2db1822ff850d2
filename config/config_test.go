package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jobtrack/backend/config"
)

func testPolicy() config.PasswordPolicy {
	return config.PasswordPolicy{
		MinLength:        8,
		RequireUppercase: true,
		RequireSpecial:   true,
	}
}

func TestPasswordPolicy_Validate(t *testing.T) {
	policy := testPolicy()

	cases := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Password1!", ""},
		{"valid with space inside", "Pass word1!", ""},
		{"too short", "Pw1!", "at least 8 characters"},
		{"no uppercase", "password1!", "uppercase letter"},
		{"no special", "Password11", "special character"},
		{"missing both", "password11", "uppercase letter, special character"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Validate(tc.password)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestPasswordPolicy_ValidateSignup_RejectsSurroundingWhitespace(t *testing.T) {
	policy := testPolicy()

	for _, password := range []string{" Password1!", "Password1! ", "\tPassword1!"} {
		if err := policy.ValidateSignup(password); err == nil {
			t.Fatalf("expected rejection for %q", password)
		}
	}

	// The same rule does not apply to plain Validate: an existing password
	// with surrounding whitespace still verifies at login.
	if err := policy.Validate(" Password1! "); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestPasswordPolicy_DigitsAreNotSpecial(t *testing.T) {
	policy := testPolicy()

	if err := policy.Validate("Password123"); err == nil {
		t.Fatal("digits must not satisfy the special character requirement")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/jobtrack?parseTime=true")
	t.Setenv("GHOSTING_THRESHOLD_DAYS", "14")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("SCHEDULE_TIMEZONE", "Europe/Sofia")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.GhostingThreshold != 14*24*time.Hour {
		t.Fatalf("unexpected ghosting threshold: %s", cfg.GhostingThreshold)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("unexpected session TTL: %s", cfg.SessionTTL)
	}
	if cfg.Location().String() != "Europe/Sofia" {
		t.Fatalf("unexpected location: %s", cfg.Location())
	}
	if cfg.PasswordPolicy.MinLength != 8 || !cfg.PasswordPolicy.RequireUppercase || !cfg.PasswordPolicy.RequireSpecial {
		t.Fatalf("unexpected default policy: %+v", cfg.PasswordPolicy)
	}
}

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("MYSQL_DSN", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without MYSQL_DSN")
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := &config.Config{ScheduleTimezone: "Not/AZone"}

	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", cfg.Location())
	}
}
