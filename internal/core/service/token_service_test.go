package service

import (
	"errors"
	"testing"
	"time"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

func testIdentity() *domain.Identity {
	return &domain.Identity{
		Wallet:      "0xabc0000000000000000000000000000000000001",
		DisplayName: "Alice",
		Role:        domain.RoleEmployer,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}

	claims, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess returned error: %v", err)
	}
	if claims.Wallet != "0xabc0000000000000000000000000000000000001" {
		t.Fatalf("unexpected wallet claim: %s", claims.Wallet)
	}
	if claims.Role != domain.RoleEmployer {
		t.Fatalf("unexpected role claim: %s", claims.Role)
	}
}

func TestTokenService_RefreshTokenIsNotABearerCredential(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.VerifyAccess(pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for refresh token on access path, got %v", err)
	}
}

func TestTokenService_AccessExpiry(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Move the verifier's clock past the access lifetime.
	svc.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_RefreshMintsAccessOnly(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	access, expiresAt, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if access == "" || expiresAt.IsZero() {
		t.Fatalf("expected a fresh access token with expiry")
	}

	claims, err := svc.VerifyAccess(access)
	if err != nil {
		t.Fatalf("refreshed access token failed verification: %v", err)
	}
	if claims.Wallet != "0xabc0000000000000000000000000000000000001" {
		t.Fatalf("claims not carried through refresh: %+v", claims)
	}

	// An access token must never be usable on the refresh path.
	if _, _, err := svc.Refresh(pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid refreshing with access token, got %v", err)
	}
}

func TestTokenService_ExpiredRefreshRejected(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	if _, _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_TamperedTokenRejected(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	other := NewTokenService("different-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := other.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}
