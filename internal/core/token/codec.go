// Package token implements the signed-token lifecycle: encoding claim sets
// into HMAC-signed JWTs, minting access/refresh pairs, and verifying
// incoming bearer tokens.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sellerhub/account-api/internal/core/domain"
)

// Claims is the signed payload embedded in every issued token.
//
// Exactly one of access/refresh applies per token: Refresh is false on
// access tokens and true on refresh tokens, fixed at issuance.
type Claims struct {
	Role    domain.Role `json:"role"`
	Refresh bool        `json:"refresh"`
	jwt.RegisteredClaims
}

// Codec signs and verifies claim sets with a process-wide secret and HMAC
// algorithm, both fixed at construction. No ambient global state.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec builds a Codec for the given secret and HMAC algorithm name
// (HS256, HS384, or HS512).
func NewCodec(secret, algorithm string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: algorithm %q is not an HMAC method", algorithm)
	}
	return &Codec{secret: []byte(secret), method: method}, nil
}

// Encode serializes claims into a signed token string.
func (c *Codec) Encode(claims Claims) (string, error) {
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode verifies the signature and returns the embedded claims.
//
// Expiry is deliberately not checked here: the Authenticator enforces it as
// a separate step so that "expired" and "invalid" stay distinguishable
// error kinds.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrTokenSignatureInvalid
	default:
		return nil, domain.ErrTokenMalformed
	}
}

func (c *Codec) keyFunc(*jwt.Token) (any, error) {
	return c.secret, nil
}
