package domain

import (
	"strings"
	"time"
)

// Conversation is the unordered pair of identities a message thread belongs to.
// Key is the canonical form of the pair (see PairKey) and carries a unique
// index, so two concurrent first messages can never create two threads.
type Conversation struct {
	ID           string    `json:"id"`
	Key          string    `json:"-"`
	Participants [2]string `json:"participants"`
	MessageIDs   []string  `json:"message_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

// PairKey canonicalizes an unordered id pair into a single index key.
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}

// Message is a single immutable chat message. Sender and receiver are tagged
// references because either side may live in either identity collection.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         Ref       `json:"sender"`
	Receiver       Ref       `json:"receiver"`
	Body           string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageView is a message expanded with display fields for both ends, the
// shape returned to clients and pushed over the realtime channel.
type MessageView struct {
	Message
	SenderName    string `json:"sender_name"`
	SenderEmail   string `json:"sender_email"`
	ReceiverName  string `json:"receiver_name"`
	ReceiverEmail string `json:"receiver_email"`
}
