package ports

import (
	"context"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// MessageRepository defines persistence for conversation messages. Retention
// is index-assisted at the store level, not enforced by callers.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	// ListByConversation returns one page of messages, oldest first.
	ListByConversation(ctx context.Context, conversationID string, page, limit int) ([]*domain.Message, error)
}
