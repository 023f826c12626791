package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTTL  = time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

// Codec signs and verifies HS256 claims with a process-wide secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(secret []byte, opts ...Option) *Codec {
	c := &Codec{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sign stamps iat with the current time and exp with iat+ttl.
func (c *Codec) Sign(claims Claims, ttl time.Duration) (string, error) {
	issuedAt := c.now().Truncate(time.Second)
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns ErrExpired once now >= exp and ErrInvalid for a bad
// signature, an unexpected algorithm or a malformed payload.
func (c *Codec) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, c.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err == nil {
		return &claims, nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		// expiry alone must not hide a forged signature
		if _, serr := jwt.ParseWithClaims(token, &Claims{}, c.key,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		); serr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, serr)
		}
		return nil, ErrExpired
	}
	return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
}

func (c *Codec) key(*jwt.Token) (any, error) {
	return c.secret, nil
}

// Failure names reported by Reason.
const (
	ReasonExpired          = "TokenExpired"
	ReasonMalformed        = "TokenMalformed"
	ReasonSignatureInvalid = "SignatureInvalid"
	ReasonClaimMissing     = "RequiredClaimMissing"
	ReasonNotValidYet      = "TokenNotValidYet"
	ReasonInvalid          = "InvalidToken"
)

// Reason names the kind of failure behind a Verify error.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonSignatureInvalid
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ReasonClaimMissing
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ReasonNotValidYet
	default:
		return ReasonInvalid
	}
}
