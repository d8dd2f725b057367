package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyMessage = errors.New("message content cannot be empty")
var ErrMessageTooLong = errors.New("message content exceeds maximum length")
var ErrNotParticipant = errors.New("not a participant of this conversation")

// Message is one chat entry in a dispute or peer-to-peer conversation.
// Messages are immutable and purged after the retention window; they are not
// an audit trail.
type Message struct {
	ID             string    `json:"id" bson:"_id"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id"`
	Sender         string    `json:"sender" bson:"sender"`
	Content        string    `json:"content" bson:"content"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

const (
	pairPrefix    = "dm:"
	disputePrefix = "dispute:"
)

// PairConversationID canonicalizes a two-wallet conversation key so that both
// participants derive the same id regardless of argument order.
func PairConversationID(a, b string) string {
	a, b = NormalizeWallet(a), NormalizeWallet(b)
	if a > b {
		a, b = b, a
	}
	return pairPrefix + a + ":" + b
}

// IsPairConversation reports whether id denotes a peer-to-peer conversation.
func IsPairConversation(id string) bool {
	return strings.HasPrefix(id, pairPrefix)
}

// PairParticipant reports whether wallet is one of the two addresses encoded
// in a canonical pair conversation id. Dispute conversations have no encoded
// membership; access to those is gated by authentication alone.
func PairParticipant(id, wallet string) bool {
	if !IsPairConversation(id) {
		return false
	}
	parts := strings.Split(strings.TrimPrefix(id, pairPrefix), ":")
	if len(parts) != 2 {
		return false
	}
	wallet = NormalizeWallet(wallet)
	return parts[0] == wallet || parts[1] == wallet
}
