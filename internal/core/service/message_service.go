package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

const (
	defaultMessagePageLimit = 50
	maxMessagePageLimit     = 100
	maxMessageLength        = 4096
)

// MessageService persists conversation messages and hands them to the room
// broker. The ordering contract is strict: a message reaches the broker only
// after the repository insert returned without error.
type MessageService struct {
	repo      ports.MessageRepository
	publisher ports.RoomPublisher
	log       zerolog.Logger
}

func NewMessageService(repo ports.MessageRepository, publisher ports.RoomPublisher, log zerolog.Logger) *MessageService {
	return &MessageService{repo: repo, publisher: publisher, log: log}
}

// Append validates, persists, and then fans out one message. A persistence
// failure is returned to the caller and nothing is published.
func (s *MessageService) Append(ctx context.Context, in ports.AppendMessageInput) (*domain.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}
	if len(content) > maxMessageLength {
		return nil, domain.ErrMessageTooLong
	}
	if in.ConversationID == "" {
		return nil, domain.ErrNotParticipant
	}
	sender := domain.NormalizeWallet(in.Sender)
	if domain.IsPairConversation(in.ConversationID) && !domain.PairParticipant(in.ConversationID, sender) {
		return nil, domain.ErrNotParticipant
	}

	msg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: in.ConversationID,
		Sender:         sender,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("conversation", in.ConversationID).Msg("failed to store message")
		return nil, fmt.Errorf("store message: %w", err)
	}

	// Fan-out strictly after the durable write.
	s.publisher.Publish(msg.ConversationID, msg)

	return msg, nil
}

// List returns one page of conversation history, oldest first. Pair
// conversations are readable only by their two participants.
func (s *MessageService) List(ctx context.Context, in ports.ListMessagesInput) ([]*domain.Message, error) {
	if domain.IsPairConversation(in.ConversationID) && !domain.PairParticipant(in.ConversationID, in.Requester) {
		return nil, domain.ErrNotParticipant
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultMessagePageLimit
	}
	if limit > maxMessagePageLimit {
		limit = maxMessagePageLimit
	}

	return s.repo.ListByConversation(ctx, in.ConversationID, page, limit)
}
