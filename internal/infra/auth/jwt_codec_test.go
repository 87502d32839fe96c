package auth

import (
	"strings"
	"testing"
	"time"

	"companion/config"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodecConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		SecretKey:          "test_secret_key_very_long_for_testing",
		Algorithm:          "HS256",
		AccessTokenMinutes: 30,
		RefreshTokenDays:   7,
	}

	return cfg
}

func TestJWTCodec_EncodeAndDecode(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	now := time.Now()

	accessToken, err := codec.Encode("a@x.com", service.TokenClassAccess, now)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	refreshToken, err := codec.Encode("a@x.com", service.TokenClassRefresh, now)
	require.NoError(t, err)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := codec.Decode(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, service.TokenClassAccess, claims.Class)

	claims, err = codec.Decode(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, service.TokenClassRefresh, claims.Class)
}

func TestJWTCodec_UniquePerIssue(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	// Same subject, class, and issuance instant: the jti claim must still
	// make every issued token distinct.
	now := time.Now()
	first, err := codec.Encode("a@x.com", service.TokenClassRefresh, now)
	require.NoError(t, err)
	second, err := codec.Encode("a@x.com", service.TokenClassRefresh, now)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTCodec_ExpiredToken(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	// Issued far enough in the past that even the refresh TTL has elapsed.
	past := time.Now().Add(-30 * 24 * time.Hour)
	token, err := codec.Encode("a@x.com", service.TokenClassAccess, past)
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTCodec_ExpiryBoundary(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	// A token whose exp equals the verification instant is already expired:
	// jwt/v5 only accepts exp strictly after now. Craft the claims directly
	// so exp is not pushed into the future by a TTL.
	claims := jwt.MapClaims{
		"sub":   "a@x.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Unix(),
		"class": string(service.TokenClassAccess),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(newTestCodecConfig().Auth.SecretKey))
	require.NoError(t, err)

	decoded, err := codec.Decode(token)
	assert.Nil(t, decoded)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTCodec_TamperedSignature(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	token, err := codec.Encode("a@x.com", service.TokenClassRefresh, time.Now())
	require.NoError(t, err)

	// Flip a byte in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := codec.Decode(tampered)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTCodec_MalformedToken(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	claims, err := codec.Decode("clearly-not-a-jwt-token-format")
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTCodec_WrongSecret(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	otherCfg := newTestCodecConfig()
	otherCfg.Auth.SecretKey = "a_completely_different_secret_key"
	otherCodec, err := NewJWTCodec(otherCfg)
	require.NoError(t, err)

	token, err := codec.Encode("a@x.com", service.TokenClassAccess, time.Now())
	require.NoError(t, err)

	claims, err := otherCodec.Decode(token)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTCodec_EmptySubject(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	_, err = codec.Encode("", service.TokenClassAccess, time.Now())
	assert.Error(t, err)
}

func TestJWTCodec_RejectsNonHMACAlgorithm(t *testing.T) {
	cfg := newTestCodecConfig()
	cfg.Auth.Algorithm = "RS256"

	codec, err := NewJWTCodec(cfg)
	assert.Nil(t, codec)
	assert.Error(t, err)
}

func TestJWTCodec_Durations(t *testing.T) {
	codec, err := NewJWTCodec(newTestCodecConfig())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, codec.AccessTokenDuration())
	assert.Equal(t, 7*24*time.Hour, codec.RefreshTokenDuration())
}
