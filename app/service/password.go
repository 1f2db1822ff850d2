package service

import (
	"fmt"

	"github.com/jobtrack/backend/config"

	"golang.org/x/crypto/bcrypt"
)

// Credentials hashes and verifies passwords and enforces the strength
// policy. The policy runs before any hashing or store write.
type Credentials struct {
	policy config.PasswordPolicy
}

func NewCredentials(policy config.PasswordPolicy) *Credentials {
	return &Credentials{policy: policy}
}

func (c *Credentials) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (c *Credentials) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (c *Credentials) ValidateStrength(password string) error {
	if err := c.policy.Validate(password); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}
	return nil
}

// ValidateSignupStrength additionally rejects surrounding whitespace, which
// is only enforced when the password is first chosen.
func (c *Credentials) ValidateSignupStrength(password string) error {
	if err := c.policy.ValidateSignup(password); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}
	return nil
}
