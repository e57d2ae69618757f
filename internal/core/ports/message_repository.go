package ports

import (
	"context"

	"github.com/campusconnect/alumni-api/internal/core/domain"
)

// ConversationRepository persists conversations and their messages.
type ConversationRepository interface {
	// Ensure returns the conversation for the canonical pair key, creating it
	// if absent. Implementations must make this safe under concurrent first
	// messages: exactly one conversation may exist per key.
	Ensure(ctx context.Context, key string, participants [2]string) (*domain.Conversation, error)

	// FindByKey returns the conversation for the key, or
	// domain.ErrConversationNotFound.
	FindByKey(ctx context.Context, key string) (*domain.Conversation, error)

	// AppendMessage stores msg and links it into the conversation's ordered
	// message sequence as one unit.
	AppendMessage(ctx context.Context, conversationID string, msg *domain.Message) (*domain.Message, error)

	// Messages returns the conversation's messages in append order.
	Messages(ctx context.Context, conversationID string) ([]*domain.Message, error)
}
