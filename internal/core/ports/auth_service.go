package ports

import (
	"context"
	"time"

	"github.com/sellerhub/account-api/internal/core/domain"
)

// LoginResult is the user-facing outcome of a successful login: the token
// pair plus metadata the frontend renders without decoding the tokens.
type LoginResult struct {
	Tokens    domain.TokenPair
	Email     string
	Role      domain.Role
	ExpiresAt time.Time // access-token expiry
}

// AuthService implements the login and refresh flows.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}
