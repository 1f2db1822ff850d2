package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jobtrack/backend/app/entity"
	"github.com/jobtrack/backend/app/repository"
	"github.com/jobtrack/backend/config"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

var (
	ErrUserExists         = errors.New("account with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("wrong credentials")
	ErrAlreadyVerified    = errors.New("account is already verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrWeakPassword       = errors.New("password does not meet policy requirements")
)

// VerificationRequiredError is returned when credentials match but the
// account has not confirmed its email. It carries enough for the client to
// offer a resend without another lookup.
type VerificationRequiredError struct {
	UserID uint64
	Email  string
}

func (e *VerificationRequiredError) Error() string {
	return "account not verified"
}

const mysqlDuplicateEntry = 1062

type AsyncRunner func(task func())

type AccountServiceOption func(*AccountService)

// AccountService orchestrates the account lifecycle: signup, verification,
// login, password reset, profile update and the deletion handshake.
type AccountService struct {
	db          *sql.DB
	users       *repository.UserRepository
	tokens      *TokenService
	sessions    *SessionService
	credentials *Credentials
	mailer      Mailer
	cfg         *config.Config
	asyncRunner AsyncRunner
}

func NewAccountService(
	db *sql.DB,
	users *repository.UserRepository,
	tokens *TokenService,
	sessions *SessionService,
	credentials *Credentials,
	mailer Mailer,
	cfg *config.Config,
	opts ...AccountServiceOption,
) *AccountService {
	svc := &AccountService{
		db:          db,
		users:       users,
		tokens:      tokens,
		sessions:    sessions,
		credentials: credentials,
		mailer:      mailer,
		cfg:         cfg,
		asyncRunner: func(task func()) {
			go task()
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithAsyncRunner(runner AsyncRunner) AccountServiceOption {
	return func(s *AccountService) {
		if runner != nil {
			s.asyncRunner = runner
		}
	}
}

type SignupInput struct {
	FirstName string
	LastName  string
	Gender    string
	Email     string
	Password  string
	AutoGhost bool
}

type ProfileUpdateInput struct {
	FirstName       string
	LastName        string
	Gender          string
	AutoGhost       bool
	CurrentPassword string
	NewPassword     string
}

type ProfileUpdateResult struct {
	PasswordChanged bool
}

// Signup validates the password, creates the user and issues a verification
// token. The verification email is sent off the request path; a send failure
// is logged and never unwinds the signup.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if err := s.credentials.ValidateSignupStrength(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.credentials.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Gender:       nullString(in.Gender),
		Email:        in.Email,
		PasswordHash: hash,
		IsVerified:   false,
		AutoGhost:    in.AutoGhost,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, user.ID, entity.TokenVerifyEmail, s.cfg.VerifyTokenTTL)
	if err != nil {
		return nil, err
	}

	s.sendVerificationEmail(user, token)

	return user, nil
}

// VerifyEmail consumes a verify_email token and marks the owner verified.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.Consume(ctx, token, entity.TokenVerifyEmail)
	if err != nil {
		return err
	}
	return s.users.MarkVerified(ctx, userID)
}

// Login returns an established session when the credentials match a verified
// account. Unknown email and wrong password collapse into one error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !s.credentials.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, &VerificationRequiredError{UserID: user.ID, Email: user.Email}
	}

	return s.sessions.Establish(ctx, user)
}

// ResendVerification issues a fresh verify_email token for a known
// (user id, email) pair and resends the email.
func (s *AccountService) ResendVerification(ctx context.Context, userID uint64, email string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.Email != email {
		return ErrUserNotFound
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	token, err := s.tokens.Issue(ctx, user.ID, entity.TokenVerifyEmail, s.cfg.VerifyTokenTTL)
	if err != nil {
		return err
	}

	s.sendVerificationEmail(user, token)

	return nil
}

// ForgotPassword issues a reset token and emails the reset link. An unknown
// email surfaces as ErrUserNotFound; the endpoint deliberately reveals
// non-existence.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, err := s.tokens.Issue(ctx, user.ID, entity.TokenResetPassword, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}

	link := s.actionLink("/reset-password", token)
	s.asyncRunner(func() {
		if err := s.mailer.SendPasswordResetEmail(user.Email, user.FirstName, link); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to send password reset email")
		}
	})

	return nil
}

// ResetPassword checks strength before touching the store, then consumes the
// token and persists the new hash. All sessions of the user are dropped.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.credentials.ValidateStrength(newPassword); err != nil {
		return err
	}

	userID, err := s.tokens.Consume(ctx, token, entity.TokenResetPassword)
	if err != nil {
		return err
	}

	hash, err := s.credentials.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	return s.sessions.DestroyAllForUser(ctx, userID)
}

// UpdateProfile writes the profile fields, then handles the optional
// password change as a second, separate step. A failure in the password
// branch surfaces on its own and is never folded into a profile success.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint64, in ProfileUpdateInput) (*ProfileUpdateResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Gender = nullString(in.Gender)
	user.AutoGhost = in.AutoGhost

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	if in.CurrentPassword == "" || in.NewPassword == "" {
		return &ProfileUpdateResult{PasswordChanged: false}, nil
	}

	if err := s.credentials.ValidateStrength(in.NewPassword); err != nil {
		return nil, err
	}
	if !s.credentials.Verify(in.CurrentPassword, user.PasswordHash) {
		return nil, ErrPasswordMismatch
	}

	hash, err := s.credentials.Hash(in.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, err
	}

	return &ProfileUpdateResult{PasswordChanged: true}, nil
}

// RequestDeletion replaces any outstanding delete_account token with a fresh
// one, keeping at most one live confirmation link per user.
func (s *AccountService) RequestDeletion(ctx context.Context, userID uint64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.tokens.RevokePrior(ctx, user.ID, entity.TokenDeleteAccount); err != nil {
		return err
	}

	token, err := s.tokens.Issue(ctx, user.ID, entity.TokenDeleteAccount, s.cfg.DeleteTokenTTL)
	if err != nil {
		return err
	}

	link := s.actionLink("/confirm-delete-account", token)
	s.asyncRunner(func() {
		if err := s.mailer.SendDeletionConfirmEmail(user.Email, user.FirstName, link); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to send deletion confirmation email")
		}
	})

	return nil
}

// ConfirmDeletion validates the token, then removes the user's interviews,
// applications, action tokens, sessions and finally the user row inside one
// transaction. Any failure rolls the whole cascade back; the confirmation
// token itself is among the action tokens dropped by the committed cascade.
func (s *AccountService) ConfirmDeletion(ctx context.Context, token string) error {
	record, err := s.tokens.Lookup(ctx, token, entity.TokenDeleteAccount)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrInvalidToken
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userID := record.UserID
	if err := repository.NewInterviewRepository(tx).DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := repository.NewApplicationRepository(tx).DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := repository.NewActionTokenRepository(tx).DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := repository.NewSessionRepository(tx).DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := repository.NewUserRepository(tx).Delete(ctx, userID); err != nil {
		return err
	}

	return tx.Commit()
}

// Logout destroys the session unconditionally.
func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

func (s *AccountService) sendVerificationEmail(user *entity.User, token string) {
	link := s.actionLink("/verify-email", token)
	s.asyncRunner(func() {
		if err := s.mailer.SendVerificationEmail(user.Email, user.FirstName, link); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to send verification email")
		}
	})
}

func (s *AccountService) actionLink(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", s.cfg.AppBaseURL, path, url.QueryEscape(token))
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
