package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/sports-academy/internal/config"
	"github.com/trentd187/sports-academy/internal/models"
)

func TestCodecs_RoundTrip(t *testing.T) {
	codecs := map[string]Codec{
		"jwt":    NewJWTCodec([]byte("test-secret"), time.Hour),
		"legacy": LegacyCodec{},
	}
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			for _, role := range []models.UserRole{models.UserRolePlayer, models.UserRoleCoach, models.UserRoleAdmin} {
				for _, id := range []uint{1, 42, 4294967295} {
					token, err := codec.Issue(id, role)
					require.NoError(t, err)

					claims, err := codec.Parse(token)
					require.NoError(t, err)
					assert.Equal(t, Claims{UserID: id, Role: role}, claims)
				}
			}
		})
	}
}

func TestJWTCodec_RejectsTampering(t *testing.T) {
	codec := NewJWTCodec([]byte("test-secret"), time.Hour)
	token, err := codec.Issue(3, models.UserRolePlayer)
	require.NoError(t, err)

	other := NewJWTCodec([]byte("another-secret"), time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Graft an admin payload onto the player's signature.
	admin, err := codec.Issue(3, models.UserRoleAdmin)
	require.NoError(t, err)
	playerParts := strings.Split(token, ".")
	adminParts := strings.Split(admin, ".")
	require.Len(t, playerParts, 3)
	tampered := strings.Join([]string{playerParts[0], adminParts[1], playerParts[2]}, ".")
	_, err = codec.Parse(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTCodec_RejectsExpired(t *testing.T) {
	codec := NewJWTCodec([]byte("test-secret"), time.Minute)
	issued := time.Now().Add(-time.Hour)
	codec.now = func() time.Time { return issued }

	token, err := codec.Issue(1, models.UserRoleAdmin)
	require.NoError(t, err)

	codec.now = time.Now
	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := NewJWTCodec([]byte("test-secret"), time.Hour)

	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = codec.Parse(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTCodec_RequiresExpiry(t *testing.T) {
	codec := NewJWTCodec([]byte("test-secret"), time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
		Role:             "admin",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLegacyCodec_Format(t *testing.T) {
	token, err := LegacyCodec{}.Issue(7, models.UserRoleCoach)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("7:coach")), token)
}

func TestLegacyCodec_RejectsMalformed(t *testing.T) {
	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"no separator", enc("12admin")},
		{"non numeric id", enc("abc:admin")},
		{"zero id", enc("0:admin")},
		{"unknown role", enc("1:superuser")},
		{"empty role", enc("1:")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LegacyCodec{}.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec(&config.Config{TokenFormat: config.TokenFormatJWT, TokenSecret: "s", TokenTTL: time.Hour})
	require.NoError(t, err)
	assert.IsType(t, &JWTCodec{}, c)

	c, err = NewCodec(&config.Config{TokenFormat: config.TokenFormatLegacy})
	require.NoError(t, err)
	assert.IsType(t, LegacyCodec{}, c)

	_, err = NewCodec(&config.Config{TokenFormat: "paseto"})
	assert.Error(t, err)
}
