package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

const collectionMessages = "messages"

// MessageRepository persists conversation messages. Retention is enforced by
// a TTL index on created_at: MongoDB deletes expired documents in the
// background, so deletion is eventual, not transactional with reads.
type MessageRepository struct {
	col       *mongo.Collection
	retention time.Duration
}

func NewMessageRepository(db *mongo.Database, retention time.Duration) *MessageRepository {
	if retention <= 0 {
		retention = 14 * 24 * time.Hour
	}
	return &MessageRepository{col: db.Collection(collectionMessages), retention: retention}
}

// Insert stores one message document.
func (r *MessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListByConversation returns one page of messages, oldest first.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string, page, limit int) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var msgs []*domain.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return msgs, nil
}

// EnsureIndexes creates the conversation index and the retention TTL index.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(r.retention.Seconds())),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
