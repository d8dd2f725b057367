package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// compareAndDelete removes the key only when it still holds the expected
// value, making nonce redemption one-shot across gateway instances.
var compareAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ChallengeRegistry stores the per-wallet login challenge in Redis.
// Key format: challenge:<wallet>. Expiry is enforced by the key TTL, so
// "absent" and "expired" are indistinguishable, which is exactly the
// semantics the auth flow wants.
type ChallengeRegistry struct {
	client *redis.Client
}

// NewChallengeRegistry creates a ChallengeRegistry wrapping the given client.
func NewChallengeRegistry(client *redis.Client) *ChallengeRegistry {
	return &ChallengeRegistry{client: client}
}

// Put stores nonce for wallet with the given TTL, replacing any prior nonce.
func (r *ChallengeRegistry) Put(ctx context.Context, wallet, nonce string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(wallet), nonce, ttl).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

// Get returns the live nonce for wallet, or domain.ErrChallengeExpired when
// no challenge exists or its TTL has elapsed.
func (r *ChallengeRegistry) Get(ctx context.Context, wallet string) (string, error) {
	nonce, err := r.client.Get(ctx, r.key(wallet)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrChallengeExpired
		}
		return "", fmt.Errorf("load challenge: %w", err)
	}
	return nonce, nil
}

// CompareAndDelete atomically consumes the challenge if it still equals
// nonce. Exactly one concurrent caller observes true per stored nonce.
func (r *ChallengeRegistry) CompareAndDelete(ctx context.Context, wallet, nonce string) (bool, error) {
	n, err := compareAndDelete.Run(ctx, r.client, []string{r.key(wallet)}, nonce).Int()
	if err != nil {
		return false, fmt.Errorf("consume challenge: %w", err)
	}
	return n == 1, nil
}

func (r *ChallengeRegistry) key(wallet string) string {
	return "challenge:" + wallet
}
