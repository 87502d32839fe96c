package service

import "time"

// TokenClass distinguishes short-lived access tokens from long-lived refresh
// tokens. Both are signed with the same process-wide secret; the class claim
// is what keeps one from standing in for the other.
type TokenClass string

const (
	// TokenClassAccess authorizes individual API calls.
	TokenClassAccess TokenClass = "access"
	// TokenClassRefresh is only accepted by the refresh endpoint.
	TokenClassRefresh TokenClass = "refresh"
)

// Claims is the decoded payload of a session token.
type Claims struct {
	Subject string // The user's email.
	Class   TokenClass
}

// TokenCodec signs and verifies self-contained session tokens. Tokens are
// stateless: validity is determined purely by signature and expiry, so
// verification needs no store round-trip. The accepted tradeoff is that a
// token cannot be invalidated before its expiry.
type TokenCodec interface {
	// Encode builds a signed token for subject with exp = now + TTL(class).
	Encode(subject string, class TokenClass, now time.Time) (string, error)

	// Decode verifies signature and expiry and extracts the claims. It fails
	// with domain ErrInvalidToken for signature mismatch, malformed
	// structure, elapsed expiry, or a missing subject. "No token provided"
	// is the caller's condition, never the codec's.
	Decode(token string) (*Claims, error)

	// AccessTokenDuration returns the configured access token lifetime.
	AccessTokenDuration() time.Duration

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
