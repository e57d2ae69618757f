package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusconnect/alumni-api/internal/api/metrics"
	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// messageEvent is the single push event type carried over the realtime
// channel.
type messageEvent struct {
	Type    string              `json:"type"`
	Message *domain.MessageView `json:"message"`
}

// MessageService sends messages and reads conversation history. Conversations
// are keyed by the canonical unordered pair, so concurrent first messages
// between the same pair land in one conversation.
type MessageService struct {
	ids      ports.IdentityRepository
	convs    ports.ConversationRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewMessageService(ids ports.IdentityRepository, convs ports.ConversationRepository, notifier ports.Notifier, logger zerolog.Logger) *MessageService {
	return &MessageService{ids: ids, convs: convs, notifier: notifier, logger: logger}
}

// Send persists a message from the authenticated sender to receiverID, then
// pushes it to the receiver's live session and the sender's other sessions.
// Push delivery is best-effort: a disconnected participant just misses the
// live event and recovers via History.
func (s *MessageService) Send(ctx context.Context, sender *domain.Identity, receiverID, body string) (*domain.MessageView, error) {
	receiver, err := s.ids.Resolve(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	conv, err := s.convs.Ensure(ctx, domain.PairKey(sender.ID, receiver.ID), [2]string{sender.ID, receiver.ID})
	if err != nil {
		return nil, err
	}

	msg, err := s.convs.AppendMessage(ctx, conv.ID, &domain.Message{
		ConversationID: conv.ID,
		Sender:         sender.Ref(),
		Receiver:       receiver.Ref(),
		Body:           body,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("conversation", conv.ID).Msg("failed to append message")
		return nil, err
	}

	view := expandMessage(msg, sender, receiver)
	metrics.MessagesSentTotal.Inc()

	if s.notifier != nil {
		event := messageEvent{Type: "message:new", Message: view}
		for _, id := range []string{receiver.ID, sender.ID} {
			if s.notifier.Push(id, event) {
				metrics.RealtimePushesTotal.WithLabelValues("delivered").Inc()
			} else {
				metrics.RealtimePushesTotal.WithLabelValues("skipped").Inc()
			}
		}
	}

	s.logger.Info().Str("conversation", conv.ID).Str("sender", sender.ID).Str("receiver", receiver.ID).Msg("message sent")
	return view, nil
}

// History returns the messages between self and otherID in append order. A
// pair that has never talked yields an empty slice, not an error.
func (s *MessageService) History(ctx context.Context, self *domain.Identity, otherID string) ([]*domain.MessageView, error) {
	other, err := s.ids.Resolve(ctx, otherID)
	if err != nil {
		return nil, err
	}

	conv, err := s.convs.FindByKey(ctx, domain.PairKey(self.ID, other.ID))
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return []*domain.MessageView{}, nil
		}
		return nil, err
	}

	msgs, err := s.convs.Messages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.MessageView, len(msgs))
	for i, m := range msgs {
		// Both endpoints are already in hand; pick per message direction.
		if m.Sender.ID == self.ID {
			views[i] = expandMessage(m, self, other)
		} else {
			views[i] = expandMessage(m, other, self)
		}
	}
	return views, nil
}

func expandMessage(m *domain.Message, sender, receiver *domain.Identity) *domain.MessageView {
	return &domain.MessageView{
		Message:       *m,
		SenderName:    sender.FullName,
		SenderEmail:   sender.CollegeEmail,
		ReceiverName:  receiver.FullName,
		ReceiverEmail: receiver.CollegeEmail,
	}
}
