package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sellerhub/account-api/internal/core/domain"
	"github.com/sellerhub/account-api/internal/core/ports"
	"github.com/sellerhub/account-api/internal/core/token"
	"github.com/sellerhub/account-api/pkg/password"
)

// LoginGuard throttles repeated failed logins per email. A nil guard
// disables throttling entirely.
type LoginGuard interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements the login and refresh flows on top of the token
// issuer/authenticator pair and the user store.
type AuthService struct {
	users  ports.UserRepository
	issuer *token.Issuer
	tokens *token.Authenticator
	guard  LoginGuard
	logger zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	issuer *token.Issuer,
	tokens *token.Authenticator,
	guard LoginGuard,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, issuer: issuer, tokens: tokens, guard: guard, logger: logger}
}

// Login verifies the credential pair and, on success, issues a fresh token
// pair. Error kinds from credential verification propagate unchanged so the
// HTTP layer can map each to its own status.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*ports.LoginResult, error) {
	if s.guard != nil {
		blocked, err := s.guard.TooManyAttempts(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("login guard unavailable, proceeding")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.authenticateCredentials(ctx, email, plaintext)
	if err != nil {
		if s.guard != nil && errors.Is(err, domain.ErrPasswordMismatch) {
			if guardErr := s.guard.RecordFailure(ctx, email); guardErr != nil {
				s.logger.Warn().Err(guardErr).Str("email", email).Msg("failed to record login failure")
			}
		}
		return nil, err
	}

	if s.guard != nil {
		if guardErr := s.guard.Reset(ctx, email); guardErr != nil {
			s.logger.Warn().Err(guardErr).Str("email", email).Msg("failed to reset login failures")
		}
	}

	pair, expiresAt, err := s.issuer.IssuePair(user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("token issuance failed")
		return nil, err
	}

	s.logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("user logged in")

	return &ports.LoginResult{
		Tokens:    *pair,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// Refresh validates a refresh token and issues a new pair for the same
// subject and role. A valid access token is rejected with
// domain.ErrNotRefreshToken; nothing is issued on any failure.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.Authenticate(refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.RequireRefresh(claims); err != nil {
		return nil, err
	}

	pair, _, err := s.issuer.IssuePair(claims.Subject, claims.Role)
	if err != nil {
		s.logger.Error().Err(err).Str("email", claims.Subject).Msg("token issuance failed on refresh")
		return nil, err
	}

	s.logger.Debug().Str("email", claims.Subject).Msg("token pair refreshed")
	return pair, nil
}

// authenticateCredentials verifies an email/password pair against the user
// store. UserNotFound and PasswordMismatch are deliberately kept distinct.
func (s *AuthService) authenticateCredentials(ctx context.Context, email, plaintext string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !password.Verify(plaintext, user.PasswordHash) {
		return nil, domain.ErrPasswordMismatch
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}
	return user, nil
}
