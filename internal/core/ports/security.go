package ports

import (
	"time"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// PasswordHasher is the one-way credential primitive.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports a mismatch as (false, nil); an error means the stored
	// hash itself is unusable.
	Verify(password, hash string) (bool, error)
}

// TokenIssuer signs and verifies access and refresh tokens.
// Verification never returns an error: a token is either valid or it is not.
type TokenIssuer interface {
	IssueAccessToken(claims domain.TokenClaims) (string, error)
	IssueRefreshToken(claims domain.TokenClaims) (string, error)
	VerifyAccessToken(token string) (domain.TokenClaims, bool)
	VerifyRefreshToken(token string) (domain.TokenClaims, bool)
	DecodeUnsafe(token string) (domain.TokenClaims, bool)
	AccessTokenTTL() time.Duration
}

// AccessVerifier is the narrow view the request gate needs.
type AccessVerifier interface {
	VerifyAccessToken(token string) (domain.TokenClaims, bool)
}
