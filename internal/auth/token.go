// Package auth issues and verifies bearer tokens and resolves the user behind them.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/trentd187/sports-academy/internal/config"
	"github.com/trentd187/sports-academy/internal/models"
)

// ErrInvalidToken covers every reason a token cannot be trusted: bad encoding, bad
// signature, wrong algorithm, expiry, or a payload that does not name a user and role.
var ErrInvalidToken = errors.New("invalid token")

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID uint
	Role   models.UserRole
}

// Codec turns an (id, role) pair into a bearer token and back.
// For every valid pair, Parse(Issue(id, role)) yields the same pair.
type Codec interface {
	Issue(userID uint, role models.UserRole) (string, error)
	Parse(token string) (Claims, error)
}

// NewCodec builds the codec selected by TOKEN_FORMAT.
func NewCodec(cfg *config.Config) (Codec, error) {
	switch cfg.TokenFormat {
	case config.TokenFormatJWT:
		return NewJWTCodec([]byte(cfg.TokenSecret), cfg.TokenTTL), nil
	case config.TokenFormatLegacy:
		return LegacyCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown token format %q", cfg.TokenFormat)
	}
}

// --- Signed tokens ---

// jwtClaims is the JWT payload: standard fields (sub = user id, jti, iat, exp) plus role.
type jwtClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWTCodec issues HS256-signed tokens that expire after ttl. Verification needs only
// the secret, so a forged or stale token is rejected before the database is touched.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTCodec returns a codec signing with secret.
func NewJWTCodec(secret []byte, ttl time.Duration) *JWTCodec {
	return &JWTCodec{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for the given user.
func (c *JWTCodec) Issue(userID uint, role models.UserRole) (string, error) {
	now := c.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Role: string(role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm and expiry, then extracts the user id and role.
func (c *JWTCodec) Parse(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{},
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return toClaims(claims.Subject, claims.Role)
}

// --- Legacy tokens ---

// LegacyCodec reads and writes base64("id:role"). It carries no signature and no
// expiry; anyone can mint one. Only enable it for clients that cannot be upgraded.
type LegacyCodec struct{}

// Issue encodes the pair.
func (LegacyCodec) Issue(userID uint, role models.UserRole) (string, error) {
	raw := fmt.Sprintf("%d:%s", userID, role)
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

// Parse decodes the pair.
func (LegacyCodec) Parse(token string) (Claims, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, role, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	return toClaims(id, role)
}

func toClaims(subject, role string) (Claims, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return Claims{}, ErrInvalidToken
	}
	r := models.UserRole(role)
	if !r.Valid() {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: uint(id), Role: r}, nil
}
