package ports

import (
	"context"
	"time"
)

// ChallengeRegistry is the per-wallet single-slot challenge store. A wallet
// holds at most one live nonce; Put replaces whatever was there.
type ChallengeRegistry interface {
	// Put stores nonce for wallet with the given time-to-live, overwriting any
	// previous nonce for that wallet.
	Put(ctx context.Context, wallet, nonce string, ttl time.Duration) error
	// Get returns the live nonce for wallet. Returns domain.ErrChallengeExpired
	// when no live challenge exists.
	Get(ctx context.Context, wallet string) (string, error)
	// CompareAndDelete removes the wallet's challenge only if it still equals
	// nonce, reporting whether this caller won the deletion. Exactly one of any
	// set of concurrent callers sees true for a given nonce.
	CompareAndDelete(ctx context.Context, wallet, nonce string) (bool, error)
}
