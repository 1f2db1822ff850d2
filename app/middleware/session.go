package middleware

import (
	"context"
	"net/http"

	"github.com/jobtrack/backend/app/entity"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// SessionCookieName is the cookie carrying the opaque session identifier.
const SessionCookieName = "jobtrack_session"

type sessionResolver interface {
	Current(ctx context.Context, sessionID string) (*entity.Session, error)
}

type SessionMiddleware struct {
	sessions sessionResolver
}

func NewSessionMiddleware(sessions sessionResolver) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// RequireSession resolves the session cookie and stores the snapshot in the
// request context. The resolver re-checks that the user still exists, so a
// session whose account was deleted reads as logged-out here.
func (m *SessionMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			logrus.Debug("Missing session cookie")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "not logged in",
			})
		}

		session, err := m.sessions.Current(c.Request().Context(), cookie.Value)
		if err != nil {
			logrus.WithError(err).Error("Failed to resolve session")
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "internal server error",
			})
		}
		if session == nil {
			logrus.Debug("Unknown or expired session")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "not logged in",
			})
		}

		c.Set("session", session)
		c.Set("user_id", session.UserID)

		return next(c)
	}
}
