package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/sellerhub/account-api/internal/core/domain"
	"github.com/sellerhub/account-api/internal/core/token"
)

func testAuthenticator(t *testing.T) (*token.Authenticator, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec("secret", "HS256")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return token.NewAuthenticator(codec), codec
}

func mintToken(t *testing.T, codec *token.Codec, refresh bool, exp time.Time) string {
	t.Helper()
	encoded, err := codec.Encode(token.Claims{
		Role:    domain.RoleSeller,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return encoded
}

func invokeAuth(auth *token.Authenticator, header string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(auth)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuth_ValidAccessToken(t *testing.T) {
	auth, codec := testAuthenticator(t)
	access := mintToken(t, codec, false, time.Now().Add(time.Hour))

	c, err := invokeAuth(auth, "Bearer "+access)
	if err != nil {
		t.Fatalf("middleware rejected a valid access token: %v", err)
	}
	if got, _ := c.Get("email").(string); got != "a@x.com" {
		t.Fatalf("email not injected: %q", got)
	}
	if got, _ := c.Get("role").(string); got != string(domain.RoleSeller) {
		t.Fatalf("role not injected: %q", got)
	}
}

func TestAuth_RejectsRefreshToken(t *testing.T) {
	auth, codec := testAuthenticator(t)
	refresh := mintToken(t, codec, true, time.Now().Add(time.Hour))

	_, err := invokeAuth(auth, "Bearer "+refresh)
	if !errors.Is(err, domain.ErrRefreshTokenRejected) {
		t.Fatalf("expected ErrRefreshTokenRejected, got %v", err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	auth, codec := testAuthenticator(t)
	expired := mintToken(t, codec, false, time.Now().Add(-time.Minute))

	_, err := invokeAuth(auth, "Bearer "+expired)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuth_HeaderValidation(t *testing.T) {
	auth, codec := testAuthenticator(t)
	access := mintToken(t, codec, false, time.Now().Add(time.Hour))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no scheme", access},
		{"wrong scheme", "Basic " + access},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invokeAuth(auth, tc.header)
			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 HTTPError, got %v", err)
			}
		})
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	auth, _ := testAuthenticator(t)

	_, err := invokeAuth(auth, "Bearer not-a-token")
	if !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
