package token

import (
	"time"

	"github.com/sellerhub/account-api/internal/core/domain"
)

// Authenticator validates incoming bearer tokens and classifies their kind.
//
// Validity ("is the signature good, is it unexpired") and kind ("is this
// the right token for the operation") are separate checks: a valid token of
// the wrong kind fails with its own distinct error, never a generic one.
type Authenticator struct {
	codec *Codec
	now   func() time.Time
}

// NewAuthenticator creates an Authenticator over codec.
func NewAuthenticator(codec *Codec) *Authenticator {
	return &Authenticator{codec: codec, now: time.Now}
}

// Authenticate decodes tokenString, propagating signature and malformation
// errors from the Codec unchanged, then enforces expiry. On success the
// embedded claims are returned.
func (a *Authenticator) Authenticate(tokenString string) (*Claims, error) {
	claims, err := a.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil || a.now().After(claims.ExpiresAt.Time) {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}

// RequireAccess rejects refresh tokens presented as access credentials.
func (a *Authenticator) RequireAccess(claims *Claims) error {
	if claims.Refresh {
		return domain.ErrRefreshTokenRejected
	}
	return nil
}

// RequireRefresh rejects access tokens presented to the refresh flow.
func (a *Authenticator) RequireRefresh(claims *Claims) error {
	if !claims.Refresh {
		return domain.ErrNotRefreshToken
	}
	return nil
}
