package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
)

type memMessageRepository struct {
	mu        sync.Mutex
	messages  []*domain.Message
	insertErr error
}

func (r *memMessageRepository) Insert(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *msg
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *memMessageRepository) ListByConversation(_ context.Context, conversationID string, page, limit int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			cp := *m
			matched = append(matched, &cp)
		}
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *memMessageRepository) stored(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// recordingPublisher records every fan-out and, for each one, whether the
// message was already present in the repository at publish time.
type recordingPublisher struct {
	repo           *memMessageRepository
	published      []*domain.Message
	storedAtFanout []bool
}

func (p *recordingPublisher) Publish(_ string, msg *domain.Message) {
	p.published = append(p.published, msg)
	p.storedAtFanout = append(p.storedAtFanout, p.repo.stored(msg.ID))
}

const (
	senderAddr = "0xaaa0000000000000000000000000000000000001"
	peerAddr   = "0xbbb0000000000000000000000000000000000002"
)

func newMessageService() (*MessageService, *memMessageRepository, *recordingPublisher) {
	repo := &memMessageRepository{}
	pub := &recordingPublisher{repo: repo}
	return NewMessageService(repo, pub, zerolog.Nop()), repo, pub
}

func TestMessageService_AppendPersistsThenPublishes(t *testing.T) {
	svc, repo, pub := newMessageService()

	conv := domain.PairConversationID(senderAddr, peerAddr)
	msg, err := svc.Append(context.Background(), ports.AppendMessageInput{
		ConversationID: conv,
		Sender:         senderAddr,
		Content:        "  hello there  ",
	})
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if msg.Content != "hello there" {
		t.Fatalf("content not trimmed: %q", msg.Content)
	}
	if !repo.stored(msg.ID) {
		t.Fatalf("message not persisted")
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected one fan-out, got %d", len(pub.published))
	}
	if !pub.storedAtFanout[0] {
		t.Fatalf("message published before it was stored")
	}
}

func TestMessageService_AppendStoreFailureSuppressesFanout(t *testing.T) {
	svc, repo, pub := newMessageService()
	repo.insertErr = errors.New("mongo down")

	conv := domain.PairConversationID(senderAddr, peerAddr)
	_, err := svc.Append(context.Background(), ports.AppendMessageInput{
		ConversationID: conv,
		Sender:         senderAddr,
		Content:        "hello",
	})
	if err == nil {
		t.Fatalf("expected insert error to surface")
	}
	if len(pub.published) != 0 {
		t.Fatalf("nothing must be published when the store rejects the write")
	}
}

func TestMessageService_AppendValidation(t *testing.T) {
	svc, _, pub := newMessageService()
	conv := domain.PairConversationID(senderAddr, peerAddr)

	cases := []struct {
		name string
		in   ports.AppendMessageInput
		want error
	}{
		{"empty content", ports.AppendMessageInput{ConversationID: conv, Sender: senderAddr, Content: "   "}, domain.ErrEmptyMessage},
		{"oversized content", ports.AppendMessageInput{ConversationID: conv, Sender: senderAddr, Content: strings.Repeat("a", maxMessageLength+1)}, domain.ErrMessageTooLong},
		{"missing conversation", ports.AppendMessageInput{Sender: senderAddr, Content: "hi"}, domain.ErrNotParticipant},
		{"outsider on pair", ports.AppendMessageInput{ConversationID: conv, Sender: "0xccc0000000000000000000000000000000000003", Content: "hi"}, domain.ErrNotParticipant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Append(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(pub.published) != 0 {
		t.Fatalf("rejected messages must not be published")
	}
}

func TestMessageService_DisputeRoomOpenToAuthenticated(t *testing.T) {
	svc, _, _ := newMessageService()

	// Dispute conversations encode no membership, so any authenticated wallet
	// may write to them.
	if _, err := svc.Append(context.Background(), ports.AppendMessageInput{
		ConversationID: "dispute:42",
		Sender:         "0xccc0000000000000000000000000000000000003",
		Content:        "evidence attached",
	}); err != nil {
		t.Fatalf("Append to dispute room failed: %v", err)
	}
}

func TestMessageService_ListGatesPairConversations(t *testing.T) {
	svc, _, _ := newMessageService()
	conv := domain.PairConversationID(senderAddr, peerAddr)

	if _, err := svc.Append(context.Background(), ports.AppendMessageInput{
		ConversationID: conv, Sender: senderAddr, Content: "hi",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if _, err := svc.List(context.Background(), ports.ListMessagesInput{
		ConversationID: conv,
		Requester:      "0xccc0000000000000000000000000000000000003",
	}); !errors.Is(err, domain.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant for outsider, got %v", err)
	}

	msgs, err := svc.List(context.Background(), ports.ListMessagesInput{
		ConversationID: conv,
		Requester:      peerAddr,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "hi" {
		t.Fatalf("unexpected history: %+v", msgs)
	}
}

func TestMessageService_ListOrderAndPaging(t *testing.T) {
	svc, _, _ := newMessageService()
	conv := domain.PairConversationID(senderAddr, peerAddr)

	for _, content := range []string{"one", "two", "three"} {
		if _, err := svc.Append(context.Background(), ports.AppendMessageInput{
			ConversationID: conv, Sender: senderAddr, Content: content,
		}); err != nil {
			t.Fatalf("Append %q: %v", content, err)
		}
	}

	msgs, err := svc.List(context.Background(), ports.ListMessagesInput{
		ConversationID: conv, Requester: senderAddr, Page: 1, Limit: 2,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "one" || msgs[1].Content != "two" {
		t.Fatalf("unexpected first page: %+v", msgs)
	}

	msgs, err = svc.List(context.Background(), ports.ListMessagesInput{
		ConversationID: conv, Requester: senderAddr, Page: 2, Limit: 2,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "three" {
		t.Fatalf("unexpected second page: %+v", msgs)
	}
}
