package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sellerhub/account-api/internal/core/domain"
	"github.com/sellerhub/account-api/internal/core/ports"
)

type stubAuthService struct {
	loginResult *ports.LoginResult
	loginErr    error
	refreshPair *domain.TokenPair
	refreshErr  error

	gotEmail    string
	gotPassword string
	gotRefresh  string
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*ports.LoginResult, error) {
	s.gotEmail, s.gotPassword = email, password
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
	s.gotRefresh = refreshToken
	return s.refreshPair, s.refreshErr
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Date(2026, 8, 1, 12, 15, 0, 0, time.UTC)
	svc := &stubAuthService{
		loginResult: &ports.LoginResult{
			Tokens:    domain.TokenPair{AccessToken: "acc", RefreshToken: "ref", TokenType: "bearer"},
			Email:     "a@x.com",
			Role:      domain.RoleUser,
			ExpiresAt: expires,
		},
	}
	h := NewAuthHandler(svc)

	c, rec := postJSON(newTestEcho(), "/auth/login", `{"email":"a@x.com","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotEmail != "a@x.com" || svc.gotPassword != "secret123" {
		t.Fatalf("credentials not forwarded: %q %q", svc.gotEmail, svc.gotPassword)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["access_token"] != "acc" || resp["refresh_token"] != "ref" {
		t.Fatalf("tokens missing from response: %v", resp)
	}
	if resp["token_type"] != "bearer" {
		t.Fatalf("unexpected token_type: %s", resp["token_type"])
	}
	if resp["role"] != "user" || resp["email"] != "a@x.com" {
		t.Fatalf("identity metadata missing: %v", resp)
	}
	if resp["expires_at"] != "2026-08-01T12:15:00Z" {
		t.Fatalf("unexpected expires_at: %s", resp["expires_at"])
	}
}

func TestAuthHandler_Login_ValidationFailures(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	e := newTestEcho()

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"secret123"}`},
		{"bad email", `{"email":"nope","password":"secret123"}`},
		{"missing password", `{"email":"a@x.com"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := postJSON(e, "/auth/login", tc.body)
			err := h.Login(c)
			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422 HTTPError, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_ServiceErrorsPassThrough(t *testing.T) {
	for _, sentinel := range []error{
		domain.ErrUserNotFound,
		domain.ErrPasswordMismatch,
		domain.ErrInactiveAccount,
		domain.ErrTooManyAttempts,
	} {
		svc := &stubAuthService{loginErr: sentinel}
		h := NewAuthHandler(svc)

		c, _ := postJSON(newTestEcho(), "/auth/login", `{"email":"a@x.com","password":"secret123"}`)
		if err := h.Login(c); !errors.Is(err, sentinel) {
			t.Fatalf("expected %v to pass through, got %v", sentinel, err)
		}
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	svc := &stubAuthService{
		refreshPair: &domain.TokenPair{AccessToken: "acc2", RefreshToken: "ref2", TokenType: "bearer"},
	}
	h := NewAuthHandler(svc)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer the-refresh-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotRefresh != "the-refresh-token" {
		t.Fatalf("token not forwarded: %q", svc.gotRefresh)
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if pair.AccessToken != "acc2" || pair.RefreshToken != "ref2" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
}

func TestAuthHandler_Refresh_MissingHeader(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Refresh(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Refresh_ServiceErrorsPassThrough(t *testing.T) {
	for _, sentinel := range []error{
		domain.ErrTokenExpired,
		domain.ErrNotRefreshToken,
		domain.ErrTokenSignatureInvalid,
		domain.ErrTokenMalformed,
	} {
		h := NewAuthHandler(&stubAuthService{refreshErr: sentinel})

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := h.Refresh(c); !errors.Is(err, sentinel) {
			t.Fatalf("expected %v to pass through, got %v", sentinel, err)
		}
	}
}
