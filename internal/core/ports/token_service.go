package ports

import (
	"time"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// TokenClaims is the verified claim set extracted from an access token.
type TokenClaims struct {
	Wallet string
	Role   string
}

// TokenPair carries the two credentials issued after a successful
// verification: a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService issues and verifies the signed credentials. Access and refresh
// tokens are signed with distinct secrets; a refresh token can never pass
// VerifyAccess.
type TokenService interface {
	Issue(identity *domain.Identity) (TokenPair, error)
	// VerifyAccess validates an access token and returns its claims. Fails with
	// domain.ErrTokenExpired past expiry, domain.ErrTokenInvalid otherwise.
	VerifyAccess(token string) (TokenClaims, error)
	// Refresh verifies a refresh token and mints a new access token. The
	// refresh token itself is not rotated.
	Refresh(refreshToken string) (string, time.Time, error)
}
