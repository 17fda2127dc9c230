package domain

import "errors"

// TokenType is the fixed kind label attached to every issued pair.
const TokenType = "bearer"

// Token lifecycle errors. Malformed, tampered, and expired tokens are kept
// as distinct kinds because each implies a different client remediation:
// re-authenticate, reject outright, or fall back to the refresh token.
var ErrTokenMalformed = errors.New("token is malformed")
var ErrTokenSignatureInvalid = errors.New("token signature is invalid")
var ErrTokenExpired = errors.New("token has expired")

// Kind errors: the token verified fine but is the wrong kind for the
// requested operation. A refresh token must never pass as an access
// credential, and the refresh flow must never accept an access token.
var ErrRefreshTokenRejected = errors.New("refresh tokens cannot be used for access")
var ErrNotRefreshToken = errors.New("not a refresh token")

// TokenPair carries a freshly issued access/refresh couple. Tokens are
// self-contained and never stored server-side; validity is derived from
// signature and expiry alone.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
