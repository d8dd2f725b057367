package ports

import (
	"context"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// IdentityRepository defines persistence for registered wallet identities.
type IdentityRepository interface {
	// Create inserts a new identity. Returns domain.ErrIdentityExists when the
	// wallet is already registered.
	Create(ctx context.Context, identity *domain.Identity) error
	// FindByWallet retrieves the identity for a normalized wallet address.
	// Returns domain.ErrIdentityNotFound when absent.
	FindByWallet(ctx context.Context, wallet string) (*domain.Identity, error)
}
