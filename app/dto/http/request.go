package http

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AutoGhost bool   `json:"auto_ghost"`
}

func NewSignupRequestFromContext(ctx echo.Context) (*SignupRequest, error) {
	var body SignupRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return errors.New("first_name and last_name are required")
	}
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewLoginRequestFromContext(ctx echo.Context) (*LoginRequest, error) {
	var body LoginRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

func NewVerifyEmailRequestFromContext(ctx echo.Context) (*VerifyEmailRequest, error) {
	var body VerifyEmailRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *VerifyEmailRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return errors.New("token is required")
	}
	return nil
}

type ResendVerificationRequest struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
}

func NewResendVerificationRequestFromContext(ctx echo.Context) (*ResendVerificationRequest, error) {
	var body ResendVerificationRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ResendVerificationRequest) Validate() error {
	if r.UserID == 0 || strings.TrimSpace(r.Email) == "" {
		return errors.New("user_id and email are required")
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func NewForgotPasswordRequestFromContext(ctx echo.Context) (*ForgotPasswordRequest, error) {
	var body ForgotPasswordRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ForgotPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	return nil
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func NewResetPasswordRequestFromContext(ctx echo.Context) (*ResetPasswordRequest, error) {
	var body ResetPasswordRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" || r.NewPassword == "" {
		return errors.New("token and new_password are required")
	}
	return nil
}

type ConfirmDeleteAccountRequest struct {
	Token string `json:"token"`
}

func NewConfirmDeleteAccountRequestFromContext(ctx echo.Context) (*ConfirmDeleteAccountRequest, error) {
	var body ConfirmDeleteAccountRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ConfirmDeleteAccountRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return errors.New("token is required")
	}
	return nil
}

type UpdateProfileRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Gender          string `json:"gender"`
	AutoGhost       bool   `json:"auto_ghost"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func NewUpdateProfileRequestFromContext(ctx echo.Context) (*UpdateProfileRequest, error) {
	var body UpdateProfileRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *UpdateProfileRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return errors.New("first_name and last_name are required")
	}
	if (r.CurrentPassword == "") != (r.NewPassword == "") {
		return errors.New("current_password and new_password must be supplied together")
	}
	return nil
}

type ApplicationRequest struct {
	PositionName    string `json:"position_name"`
	EmployerName    string `json:"employer_name"`
	ApplicationDate string `json:"application_date"`
	EmploymentType  string `json:"employment_type"`
	Source          string `json:"source"`
	JobDescription  string `json:"job_description"`
	JobLink         string `json:"job_link"`
	WorkMode        string `json:"work_mode"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
}

func NewApplicationRequestFromContext(ctx echo.Context) (*ApplicationRequest, error) {
	var body ApplicationRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ApplicationRequest) Validate() error {
	if strings.TrimSpace(r.PositionName) == "" || strings.TrimSpace(r.EmployerName) == "" {
		return errors.New("position_name and employer_name are required")
	}
	if _, err := r.ParsedDate(); err != nil {
		return errors.New("application_date must be a valid date (YYYY-MM-DD)")
	}
	return nil
}

func (r *ApplicationRequest) ParsedDate() (time.Time, error) {
	return time.Parse("2006-01-02", r.ApplicationDate)
}

type InterviewRequest struct {
	ApplicationID uint64 `json:"application_id"`
	ScheduledAt   string `json:"scheduled_at"`
	Kind          string `json:"kind"`
	Location      string `json:"location"`
	Notes         string `json:"notes"`
}

func NewInterviewRequestFromContext(ctx echo.Context) (*InterviewRequest, error) {
	var body InterviewRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *InterviewRequest) Validate() error {
	if r.ApplicationID == 0 {
		return errors.New("application_id is required")
	}
	if _, err := r.ParsedScheduledAt(); err != nil {
		return errors.New("scheduled_at must be a valid RFC 3339 timestamp")
	}
	return nil
}

func (r *InterviewRequest) ParsedScheduledAt() (time.Time, error) {
	return time.Parse(time.RFC3339, r.ScheduledAt)
}
