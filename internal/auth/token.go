// Package auth implements the session-token codec shared by every service.
//
// Tokens are compact JWTs signed with a symmetric HS256 secret. The secret is
// injected at construction and must be bit-for-bit identical across all
// services that verify tokens; there is no key fallback, so a mismatch shows
// up as uniform signature failures.
//
// Claims are only reachable through a successful Verify, so callers cannot
// read identity fields out of a token that has not been checked.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
)

// Kind distinguishes short-lived access tokens from long-lived refresh tokens.
type Kind string

const (
	KindAccess  Kind = "ACCESS"
	KindRefresh Kind = "REFRESH"
)

// Claims carries the signed session fields: subject (username), numeric user
// id, token kind, and the registered iat/exp timestamps.
type Claims struct {
	UserID int64 `json:"userId"`
	Kind   Kind  `json:"type"`
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.Subject
}

// Codec signs and verifies session tokens.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option customizes a Codec.
type Option func(*Codec)

// WithClock replaces the codec's time source. Used by tests to simulate
// token expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a Codec with the given shared secret and token lifetimes.
func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("auth: token TTLs must be positive")
	}
	c := &Codec{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewVerifier builds a Codec for services that only verify tokens and never
// issue them. Lifetimes are nominal; verification reads expiry from the
// token itself.
func NewVerifier(secret []byte, opts ...Option) (*Codec, error) {
	return NewCodec(secret, time.Minute, time.Minute, opts...)
}

// AccessTTL reports the configured access-token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL reports the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess mints a signed access token for the given identity.
func (c *Codec) IssueAccess(username string, userID int64) (string, error) {
	return c.issue(KindAccess, username, userID, c.accessTTL)
}

// IssueRefresh mints a signed refresh token for the given identity.
func (c *Codec) IssueRefresh(username string, userID int64) (string, error) {
	return c.issue(KindRefresh, username, userID, c.refreshTTL)
}

func (c *Codec) issue(kind Kind, username string, userID int64, ttl time.Duration) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify parses and validates a token string. It returns the claims on
// success, common.ErrTokenExpired for an expired token, and
// common.ErrInvalidToken for everything else: bad signature, structural
// corruption, or a foreign signing algorithm. There is no partial trust.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// VerifyKind is Verify plus an exact match on the token kind. A refresh
// token presented where an access token is required (or vice versa) fails
// with common.ErrInvalidToken.
func (c *Codec) VerifyKind(tokenString string, kind Kind) (*Claims, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
