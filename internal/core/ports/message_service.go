package ports

import (
	"context"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// RoomPublisher fans a newly stored message out to live subscribers. Callers
// must only publish messages that have already been durably persisted.
type RoomPublisher interface {
	Publish(conversationID string, msg *domain.Message)
}

// AppendMessageInput carries one message to append to a conversation.
type AppendMessageInput struct {
	ConversationID string
	Sender         string
	Content        string
}

// ListMessagesInput carries the paginated history query.
type ListMessagesInput struct {
	ConversationID string
	Requester      string
	Page           int
	Limit          int
}

// MessageService appends and lists conversation messages. Append persists
// before any realtime fan-out so that late joiners reading history never see
// a message a live subscriber received but the store denies.
type MessageService interface {
	Append(ctx context.Context, in AppendMessageInput) (*domain.Message, error)
	List(ctx context.Context, in ListMessagesInput) ([]*domain.Message, error)
}
