package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jobtrack/backend/app/entity"
	"github.com/jobtrack/backend/app/middleware"

	"github.com/labstack/echo/v4"
)

type stubResolver struct {
	session *entity.Session
	err     error
}

func (r *stubResolver) Current(_ context.Context, _ string) (*entity.Session, error) {
	return r.session, r.err
}

func runMiddleware(t *testing.T, resolver *stubResolver, cookie *http.Cookie) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	e := echo.New()
	ctx := e.NewContext(req, rec)

	reached := false
	handler := middleware.NewSessionMiddleware(resolver).RequireSession(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(ctx); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return rec, reached
}

func TestRequireSession_NoCookie(t *testing.T) {
	rec, reached := runMiddleware(t, &stubResolver{}, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if reached {
		t.Fatal("handler must not run without a session cookie")
	}
}

func TestRequireSession_UnknownSession(t *testing.T) {
	rec, reached := runMiddleware(t, &stubResolver{session: nil}, &http.Cookie{
		Name:  middleware.SessionCookieName,
		Value: "gone",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if reached {
		t.Fatal("handler must not run for an unknown session")
	}
}

func TestRequireSession_ResolverFailure(t *testing.T) {
	rec, reached := runMiddleware(t, &stubResolver{err: errors.New("db down")}, &http.Cookie{
		Name:  middleware.SessionCookieName,
		Value: "sess-id",
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if reached {
		t.Fatal("handler must not run when the resolver fails")
	}
}

func TestRequireSession_ValidSession(t *testing.T) {
	session := &entity.Session{
		ID:        "sess-id",
		UserID:    1,
		FirstName: "Ada",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "sess-id"})
	rec := httptest.NewRecorder()

	e := echo.New()
	ctx := e.NewContext(req, rec)

	handler := middleware.NewSessionMiddleware(&stubResolver{session: session}).RequireSession(func(c echo.Context) error {
		if got, ok := c.Get("session").(*entity.Session); !ok || got.ID != "sess-id" {
			t.Fatalf("expected session in context, got %#v", c.Get("session"))
		}
		if got, ok := c.Get("user_id").(uint64); !ok || got != 1 {
			t.Fatalf("expected user_id in context, got %#v", c.Get("user_id"))
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(ctx); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
