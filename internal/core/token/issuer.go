package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sellerhub/account-api/internal/core/domain"
)

const (
	// DefaultAccessTTL is the access-token lifetime used when none is configured.
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL is the refresh-token lifetime used when none is configured.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Issuer mints access/refresh token pairs, applying a distinct expiry policy
// per kind. Pure composition over the Codec; no side effects.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer creates an Issuer over codec. Non-positive TTLs fall back to the
// package defaults.
func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

// IssuePair signs an access and a refresh token for subject. The two claim
// sets are identical except for the expiry instant and the refresh marker.
// The access token's expiry is returned alongside the pair for client
// metadata.
func (i *Issuer) IssuePair(subject string, role domain.Role) (*domain.TokenPair, time.Time, error) {
	now := i.now().UTC()
	accessExp := now.Add(i.accessTTL)

	access, err := i.codec.Encode(i.claims(subject, role, accessExp, false))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := i.codec.Encode(i.claims(subject, role, now.Add(i.refreshTTL), true))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}

	pair := &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domain.TokenType,
	}
	return pair, accessExp, nil
}

func (i *Issuer) claims(subject string, role domain.Role, exp time.Time, refresh bool) Claims {
	return Claims{
		Role:    role,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}
