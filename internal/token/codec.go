// Package token encodes and decodes the signed, time-bound JWTs used for
// authentication. Tokens are stateless: validity is determined entirely by
// signature and expiry, never by a lookup table.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed input, bad signatures and expired tokens.
	ErrInvalidToken = errors.New("token: invalid token")
	// ErrWrongTokenType is returned when an otherwise valid token carries the
	// wrong type discriminator, e.g. a refresh token presented as access.
	ErrWrongTokenType = errors.New("token: wrong token type")
)

// Type discriminates access tokens from refresh tokens.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Claims is the only supported claims shape for this service. Scopes is set
// on access tokens only and reflects the principal's role/permission
// assignment at mint time; it is advisory, not the authorization source of
// truth.
type Claims struct {
	jwt.RegisteredClaims

	TokenType Type     `json:"type"`
	Scopes    []string `json:"scopes,omitempty"`
}

// Codec signs and verifies tokens with a single shared secret and a fixed
// symmetric algorithm. It holds only immutable configuration and is safe for
// concurrent use.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// leeway is the clock-skew grace applied on decode. Zero unless set
	// through WithLeeway.
	leeway time.Duration
}

// Option tunes optional Codec behavior.
type Option func(*Codec)

// WithLeeway sets the clock-skew grace applied when validating expiry.
// Deployments with skewed clocks can set a small positive value; the default
// is zero.
func WithLeeway(d time.Duration) Option {
	return func(c *Codec) {
		if d > 0 {
			c.leeway = d
		}
	}
}

// NewCodec constructs a Codec. The secret is required and algorithm must be
// HS256; there is no key rotation support.
func NewCodec(secret, algorithm string, accessTTL, refreshTTL time.Duration, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if algorithm != jwt.SigningMethodHS256.Alg() {
		return nil, errors.New("token: only HS256 is supported")
	}
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	codec := &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec, nil
}

// Encode mints a signed token for the subject. Scopes are embedded on access
// tokens only; refresh tokens never carry them.
func (c *Codec) Encode(subject string, typ Type, scopes []string, now time.Time) (string, error) {
	ttl := c.accessTTL
	if typ == TypeRefresh {
		ttl = c.refreshTTL
		scopes = nil
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
		Scopes:    scopes,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies signature and expiry at the given instant. All parse and
// validation failures are normalized to ErrInvalidToken.
func (c *Codec) Decode(tokenString string, now time.Time) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(c.leeway),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// DecodeAs decodes the token and additionally enforces the expected type.
// A valid token of the wrong type fails with ErrWrongTokenType, keeping
// refresh-as-access misuse distinguishable from generic invalidity.
func (c *Codec) DecodeAs(tokenString string, expected Type, now time.Time) (Claims, error) {
	claims, err := c.Decode(tokenString, now)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != expected {
		return Claims{}, ErrWrongTokenType
	}
	return claims, nil
}
