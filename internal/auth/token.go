package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = 24 * time.Hour

// Identity is the verified result of credential verification: who the
// caller is and which role their credential carries. It is immutable
// for the lifetime of a request.
type Identity struct {
	UserID int64
	Role   Role
}

// Claims is the JWT payload bound into every issued credential.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed, time-bounded credentials. The
// signing secret is injected once at construction and never mutated;
// key rotation is out of scope.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithTTL overrides the credential validity window.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) CodecOption {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// WithIssuer overrides the issuer claim.
func WithIssuer(issuer string) CodecOption {
	return func(c *Codec) {
		if s := strings.TrimSpace(issuer); s != "" {
			c.issuer = s
		}
	}
}

// NewCodec constructs a Codec signing with the given process-wide secret.
func NewCodec(secret string, opts ...CodecOption) (*Codec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	c := &Codec{
		secret: []byte(secret),
		issuer: "campusgate",
		ttl:    defaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured validity window.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a credential binding the user identifier and role for the
// configured validity window.
func (c *Codec) Issue(userID int64, role Role) (string, time.Time, error) {
	if userID <= 0 {
		return "", time.Time{}, errors.New("auth: user id is required")
	}
	if _, ok := ParseRole(string(role)); !ok {
		return "", time.Time{}, errors.New("auth: unknown role")
	}

	now := c.now().UTC()
	expiresAt := now.Add(c.ttl)
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and recovers the embedded identity.
// Every failure yields ErrInvalidToken; there is no partial trust.
func (c *Codec) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Issuer != c.issuer {
		return Identity{}, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(claims.Subject), 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, ErrInvalidToken
	}
	role, ok := ParseRole(claims.Role)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, Role: role}, nil
}
