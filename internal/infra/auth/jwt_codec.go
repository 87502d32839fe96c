package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"companion/config"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/service"
)

// jwtCodec implements service.TokenCodec with the JWT standard. Tokens are
// stateless; once issued they stay valid until their exp elapses.
type jwtCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTCodec is the constructor for jwtCodec. The secret, signing algorithm
// and both TTLs come from configuration.
func NewJWTCodec(cfg *config.Config) (service.TokenCodec, error) {
	if cfg.Auth == nil || cfg.Auth.SecretKey == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	method := jwt.GetSigningMethod(cfg.Auth.Algorithm)
	if method == nil {
		return nil, errors.Errorf("unknown signing algorithm: %s", cfg.Auth.Algorithm)
	}
	// Only the HMAC family is supported: the signing key is a single shared
	// secret, not an asymmetric key pair.
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("signing algorithm %s is not an HMAC method", cfg.Auth.Algorithm)
	}

	return &jwtCodec{
		secret:     []byte(cfg.Auth.SecretKey),
		method:     method,
		accessTTL:  time.Duration(cfg.Auth.AccessTokenMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.Auth.RefreshTokenDays) * 24 * time.Hour,
	}, nil
}

// Encode builds a signed token carrying {sub, iat, exp, class, jti}.
func (c *jwtCodec) Encode(subject string, class service.TokenClass, now time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty")
	}

	ttl := c.accessTTL
	if class == service.TokenClassRefresh {
		ttl = c.refreshTTL
	}

	// iat and exp have second granularity, so without jti two tokens issued
	// within the same second would be byte-identical. Refresh rotation
	// requires every issued token to be distinct.
	claims := jwt.MapClaims{
		"sub":   subject,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"class": string(class),
		"jti":   uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Decode verifies signature and expiry and extracts the claims. Every failure
// mode collapses into the single domain ErrInvalidToken: the caller cannot
// distinguish a forged token from an expired one, and must not need to.
func (c *jwtCodec) Decode(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != c.method.Alg() {
			return nil, jwt.ErrSignatureInvalid
		}

		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("failed to parse token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("unexpected claims type")
	}

	subject, ok := mapClaims["sub"].(string)
	if !ok || subject == "" {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("subject claim missing")
	}

	class, _ := mapClaims["class"].(string)

	return &service.Claims{
		Subject: subject,
		Class:   service.TokenClass(class),
	}, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (c *jwtCodec) AccessTokenDuration() time.Duration {
	return c.accessTTL
}

// RefreshTokenDuration returns the configured refresh token lifetime.
func (c *jwtCodec) RefreshTokenDuration() time.Duration {
	return c.refreshTTL
}
