package service_test

import (
	"errors"
	"testing"

	"github.com/jobtrack/backend/app/service"
)

func TestCredentials_HashAndVerify(t *testing.T) {
	credentials := service.NewCredentials(testConfig().PasswordPolicy)

	hash, err := credentials.Hash("Password1!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "Password1!" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !credentials.Verify("Password1!", hash) {
		t.Fatal("expected password to verify")
	}
	if credentials.Verify("NotThePassword1!", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestCredentials_ValidateStrength(t *testing.T) {
	credentials := service.NewCredentials(testConfig().PasswordPolicy)

	if err := credentials.ValidateStrength("weak"); !errors.Is(err, service.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := credentials.ValidateStrength("Password1!"); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	// Surrounding whitespace only fails the signup variant.
	if err := credentials.ValidateStrength(" Password1! "); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := credentials.ValidateSignupStrength(" Password1! "); !errors.Is(err, service.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}
