package controller

import (
	"errors"
	"net/http"
	"time"

	httpdto "github.com/jobtrack/backend/app/dto/http"
	"github.com/jobtrack/backend/app/entity"
	appmiddleware "github.com/jobtrack/backend/app/middleware"
	"github.com/jobtrack/backend/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AccountController struct {
	accounts   *service.AccountService
	sessionTTL time.Duration
}

func NewAccountController(accounts *service.AccountService, sessionTTL time.Duration) *AccountController {
	return &AccountController{accounts: accounts, sessionTTL: sessionTTL}
}

func (c *AccountController) Signup(ctx echo.Context) error {
	req, err := httpdto.NewSignupRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind signup request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Signup validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Signup request received")
	user, err := c.accounts.Signup(ctx.Request().Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Email:     req.Email,
		Password:  req.Password,
		AutoGhost: req.AutoGhost,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			logrus.WithField("email", req.Email).Warn("Signup failed: weak password")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, service.ErrUserExists) {
			logrus.WithField("email", req.Email).Warn("Signup failed: email already registered")
			return ctx.JSON(http.StatusConflict, httpdto.ErrorResponse{Error: "account with this email already exists"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Signup failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User signed up")
	return ctx.JSON(http.StatusCreated, httpdto.SignupResponse{
		UserID:  user.ID,
		Email:   user.Email,
		Message: "account created, please verify your email",
	})
}

func (c *AccountController) VerifyEmail(ctx echo.Context) error {
	req, err := httpdto.NewVerifyEmailRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind verify email request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Verify email validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.Info("Verify email request received")
	if err = c.accounts.VerifyEmail(ctx.Request().Context(), req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			logrus.Warn("Verify email failed: invalid or expired token")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid or expired token"})
		}
		logrus.WithError(err).Error("Verify email failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.Info("Email verified")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "email verified successfully"})
}

func (c *AccountController) Login(ctx echo.Context) error {
	req, err := httpdto.NewLoginRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind login request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Login validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Login request received")
	session, err := c.accounts.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		var verification *service.VerificationRequiredError
		if errors.As(err, &verification) {
			logrus.WithField("email", req.Email).Warn("Login failed: account not verified")
			return ctx.JSON(http.StatusForbidden, httpdto.VerificationRequiredResponse{
				Error:  "account not verified",
				UserID: verification.UserID,
				Email:  verification.Email,
			})
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("email", req.Email).Warn("Login failed: wrong credentials")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "wrong credentials"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Login failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	c.setSessionCookie(ctx, session.ID, c.sessionTTL)

	logrus.WithField("user_id", session.UserID).Info("Login successful")
	return ctx.JSON(http.StatusOK, httpdto.LoginResponse{
		UserID:    session.UserID,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		Message:   "logged in successfully",
	})
}

func (c *AccountController) ResendVerification(ctx echo.Context) error {
	req, err := httpdto.NewResendVerificationRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind resend verification request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Resend verification validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Resend verification request received")
	if err = c.accounts.ResendVerification(ctx.Request().Context(), req.UserID, req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("email", req.Email).Warn("Resend verification failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		if errors.Is(err, service.ErrAlreadyVerified) {
			logrus.WithField("email", req.Email).Warn("Resend verification failed: already verified")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "account is already verified"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Resend verification failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Verification email resent")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "verification email sent"})
}

func (c *AccountController) ForgotPassword(ctx echo.Context) error {
	req, err := httpdto.NewForgotPasswordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind forgot password request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Forgot password validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Password reset requested")
	if err = c.accounts.ForgotPassword(ctx.Request().Context(), req.Email); err != nil {
		// The 404 here reveals whether an account exists. Kept on purpose;
		// changing it is a product decision, not a bug fix.
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("email", req.Email).Warn("Forgot password failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Forgot password failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Password reset email sent")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "password reset email sent"})
}

func (c *AccountController) ResetPassword(ctx echo.Context) error {
	req, err := httpdto.NewResetPasswordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind reset password request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Reset password validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.Info("Reset password request received")
	if err = c.accounts.ResetPassword(ctx.Request().Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			logrus.Warn("Reset password failed: weak password")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, service.ErrInvalidToken) {
			logrus.Warn("Reset password failed: invalid or expired token")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid or expired token"})
		}
		logrus.WithError(err).Error("Reset password failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.Info("Password reset successful")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "password reset successfully"})
}

func (c *AccountController) Me(ctx echo.Context) error {
	session, ok := ctx.Get("session").(*entity.Session)
	if !ok {
		logrus.Warn("Me failed: missing session in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	return ctx.JSON(http.StatusOK, httpdto.NewMeResponse(session))
}

func (c *AccountController) UpdateProfile(ctx echo.Context) error {
	req, err := httpdto.NewUpdateProfileRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind update profile request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Update profile validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		logrus.Warn("Update profile failed: missing user_id in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	logrus.WithField("user_id", userID).Info("Update profile request received")
	result, err := c.accounts.UpdateProfile(ctx.Request().Context(), userID, service.ProfileUpdateInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Gender:          req.Gender,
		AutoGhost:       req.AutoGhost,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("user_id", userID).Warn("Update profile failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		if errors.Is(err, service.ErrWeakPassword) {
			logrus.WithField("user_id", userID).Warn("Update profile failed: weak password")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, service.ErrPasswordMismatch) {
			logrus.WithField("user_id", userID).Warn("Update profile failed: current password mismatch")
			return ctx.JSON(http.StatusForbidden, httpdto.ErrorResponse{Error: "current password is incorrect"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Update profile failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "password_changed": result.PasswordChanged}).Info("Profile updated")
	return ctx.JSON(http.StatusOK, httpdto.UpdateProfileResponse{
		Message:         "profile updated",
		PasswordChanged: result.PasswordChanged,
	})
}

func (c *AccountController) RequestDeletion(ctx echo.Context) error {
	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		logrus.Warn("Request deletion failed: missing user_id in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	logrus.WithField("user_id", userID).Info("Account deletion requested")
	if err := c.accounts.RequestDeletion(ctx.Request().Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("user_id", userID).Warn("Request deletion failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Request deletion failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("user_id", userID).Info("Deletion confirmation email sent")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "confirmation email sent"})
}

func (c *AccountController) ConfirmDeletion(ctx echo.Context) error {
	req, err := httpdto.NewConfirmDeleteAccountRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind confirm deletion request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Confirm deletion validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.Info("Confirm deletion request received")
	if err = c.accounts.ConfirmDeletion(ctx.Request().Context(), req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			logrus.Warn("Confirm deletion failed: invalid or expired token")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid or expired token"})
		}
		logrus.WithError(err).Error("Confirm deletion failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.Info("Account deleted")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "account deleted"})
}

// Logout destroys whatever session the cookie names; it succeeds even when
// no session exists.
func (c *AccountController) Logout(ctx echo.Context) error {
	cookie, err := ctx.Cookie(appmiddleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := c.accounts.Logout(ctx.Request().Context(), cookie.Value); err != nil {
			logrus.WithError(err).Error("Logout failed")
			return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
		}
	}

	c.setSessionCookie(ctx, "", -time.Hour)

	logrus.Info("Logout successful")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "logged out successfully"})
}

func (c *AccountController) setSessionCookie(ctx echo.Context, value string, ttl time.Duration) {
	ctx.SetCookie(&http.Cookie{
		Name:     appmiddleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
