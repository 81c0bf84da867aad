package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/articlehub/articlehub-backend/internal/config"
	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisChatNotifier publishes chat messages on per-thread Redis Pub/Sub channels.
type RedisChatNotifier struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisChatNotifier creates a new RedisChatNotifier.
func NewRedisChatNotifier(rdb *redis.Client, log zerolog.Logger) *RedisChatNotifier {
	return &RedisChatNotifier{
		rdb: rdb,
		log: log.With().Str("component", "chat_notifier").Logger(),
	}
}

// Publish sends the message to every thread it belongs to.
func (n *RedisChatNotifier) Publish(ctx context.Context, m *model.ChatMessage) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	for _, thread := range m.ThreadKeys() {
		if err := n.rdb.Publish(ctx, config.CacheKey.ChatThreadChannel(thread), payload).Err(); err != nil {
			return fmt.Errorf("publish to %s: %w", thread, err)
		}
	}
	return nil
}

// Subscribe listens on one thread's channel until the subscription is closed.
func (n *RedisChatNotifier) Subscribe(ctx context.Context, thread string) (ChatSubscription, error) {
	channel := config.CacheKey.ChatThreadChannel(thread)
	pubsub := n.rdb.Subscribe(ctx, channel)

	// Wait for the subscribe confirmation so messages sent right after return are not missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	sub := &redisChatSubscription{
		pubsub: pubsub,
		out:    make(chan model.ChatMessage, 16),
		done:   make(chan struct{}),
	}
	go sub.forward(n.log.With().Str("channel", channel).Logger())
	return sub, nil
}

type redisChatSubscription struct {
	pubsub *redis.PubSub
	out    chan model.ChatMessage
	done   chan struct{}
	once   sync.Once
}

func (s *redisChatSubscription) Messages() <-chan model.ChatMessage {
	return s.out
}

func (s *redisChatSubscription) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.pubsub.Close()
}

// forward decodes raw payloads until the underlying channel closes.
func (s *redisChatSubscription) forward(log zerolog.Logger) {
	defer close(s.out)

	for raw := range s.pubsub.Channel() {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(raw.Payload), &m); err != nil {
			log.Warn().Err(err).Msg("Dropping undecodable chat payload")
			continue
		}
		select {
		case s.out <- m:
		case <-s.done:
			return
		}
	}
}
