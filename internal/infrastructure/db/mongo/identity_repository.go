package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

const collectionIdentities = "identities"

// IdentityRepository persists wallet identities. The unique index on wallet
// is what makes first-writer-wins signup races safe.
type IdentityRepository struct {
	col *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionIdentities)}
}

// Create inserts a new identity document.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, identity)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// FindByWallet retrieves an identity by its normalized wallet address.
func (r *IdentityRepository) FindByWallet(ctx context.Context, wallet string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var identity domain.Identity
	err := r.col.FindOne(ctx, bson.M{"wallet": wallet}).Decode(&identity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &identity, nil
}

// EnsureIndexes creates the unique wallet index.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "wallet", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
