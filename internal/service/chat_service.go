package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/rs/zerolog"
)

// Chat errors.
var (
	ErrInvalidMessage  = errors.New("invalid chat message")
	ErrPushUnavailable = errors.New("push delivery is not configured")
)

// ChatStore persists and reads chat messages.
type ChatStore interface {
	Insert(ctx context.Context, m *model.ChatMessage) error
	ListThread(ctx context.Context, thread string) ([]model.ChatMessage, error)
	ListRecipients(ctx context.Context) ([]string, error)
}

// ChatSubscription delivers messages published to one thread.
type ChatSubscription interface {
	Messages() <-chan model.ChatMessage
	Close() error
}

// ChatNotifier fans new messages out to live subscribers.
type ChatNotifier interface {
	Publish(ctx context.Context, m *model.ChatMessage) error
	Subscribe(ctx context.Context, thread string) (ChatSubscription, error)
}

// SendMessageInput is what a caller asks the relay to store.
type SendMessageInput struct {
	Role       model.SenderRole
	SenderName string
	Recipient  string
	Body       string
}

// ChatService relays messages between guests and the admin desk.
// There is no locking: ordering comes from the store's timestamp and insertion id.
type ChatService struct {
	store    ChatStore
	notifier ChatNotifier
	log      zerolog.Logger
}

// NewChatService creates a new ChatService. notifier may be nil, which disables push delivery.
func NewChatService(store ChatStore, notifier ChatNotifier, log zerolog.Logger) *ChatService {
	return &ChatService{
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "chat_service").Logger(),
	}
}

// Send validates and stores a message. A store failure is returned to the caller
// and not retried. A failed publish is only logged since pollers pick the message up anyway.
func (s *ChatService) Send(ctx context.Context, in SendMessageInput) (*model.ChatMessage, error) {
	msg := &model.ChatMessage{
		SenderRole: in.Role,
		SenderName: strings.TrimSpace(in.SenderName),
		Recipient:  strings.TrimSpace(in.Recipient),
		Body:       in.Body,
	}

	switch msg.SenderRole {
	case model.SenderAdmin:
		msg.SenderName = model.AdminDisplayName
	case model.SenderGuest:
		if msg.SenderName == "" {
			return nil, fmt.Errorf("%w: sender name is required", ErrInvalidMessage)
		}
	default:
		return nil, fmt.Errorf("%w: unknown sender role %q", ErrInvalidMessage, in.Role)
	}
	if msg.Recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(msg.Body) == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrInvalidMessage)
	}

	if err := s.store.Insert(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("recipient", msg.Recipient).Msg("Store message failed")
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, msg); err != nil {
			s.log.Warn().Err(err).Int64("message_id", msg.ID).Msg("Publish message failed")
		}
	}

	return msg, nil
}

// ListThread returns the conversation keyed by a guest's name, oldest first.
func (s *ChatService) ListThread(ctx context.Context, thread string) ([]model.ChatMessage, error) {
	thread = strings.TrimSpace(thread)
	if thread == "" {
		return nil, fmt.Errorf("%w: thread name is required", ErrInvalidMessage)
	}
	return s.store.ListThread(ctx, thread)
}

// ListRecipients returns the names of everyone the admin desk has a thread with.
func (s *ChatService) ListRecipients(ctx context.Context) ([]string, error) {
	return s.store.ListRecipients(ctx)
}

// Subscribe opens a live feed of new messages in one thread.
func (s *ChatService) Subscribe(ctx context.Context, thread string) (ChatSubscription, error) {
	if s.notifier == nil {
		return nil, ErrPushUnavailable
	}
	return s.notifier.Subscribe(ctx, strings.TrimSpace(thread))
}
