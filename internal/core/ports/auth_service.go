package ports

import (
	"context"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// VerifyInput carries a signed challenge response. DisplayName and Role are
// only consulted on first-time signup and are ignored for known wallets.
type VerifyInput struct {
	Wallet      string
	Signature   string
	DisplayName string
	Role        string
}

// AuthService orchestrates the challenge/response flow: nonce issuance,
// signature verification, first-login signup, and token issuance.
type AuthService interface {
	// Challenge issues a fresh single-use nonce for wallet, replacing any
	// previous live challenge.
	Challenge(ctx context.Context, wallet string) (string, error)
	// Verify redeems the wallet's challenge against the supplied signature and
	// exchanges it for a token pair, creating the identity on first success.
	Verify(ctx context.Context, in VerifyInput) (TokenPair, *domain.Identity, error)
	// Identity returns the registered identity for a wallet.
	Identity(ctx context.Context, wallet string) (*domain.Identity, error)
}
