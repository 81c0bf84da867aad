package worker

import (
	"context"
	"time"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/rs/zerolog"
)

// ThreadFetcher loads the current state of one chat thread.
type ThreadFetcher func(ctx context.Context) ([]model.ChatMessage, error)

// ChatPoller re-reads a chat thread on a fixed interval and reports it when it changed.
// Fetch errors are logged and retried on the next tick; they never stop the loop.
type ChatPoller struct {
	interval time.Duration
	fetch    ThreadFetcher
	log      zerolog.Logger

	seen     bool
	lastLen  int
	lastID   int64
	failures int
}

// NewChatPoller creates a new ChatPoller.
func NewChatPoller(interval time.Duration, fetch ThreadFetcher, log zerolog.Logger) *ChatPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &ChatPoller{
		interval: interval,
		fetch:    fetch,
		log:      log.With().Str("component", "chat_poller").Logger(),
	}
}

// Start polls until ctx is cancelled, calling emit with every changed snapshot.
// The first successful poll is always emitted. Call in a goroutine.
func (p *ChatPoller) Start(ctx context.Context, emit func([]model.ChatMessage)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if msgs, changed := p.Poll(ctx); changed {
			emit(msgs)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll performs one fetch. It returns the thread and whether it differs from the last
// successful fetch. A failed fetch returns (nil, false).
func (p *ChatPoller) Poll(ctx context.Context) ([]model.ChatMessage, bool) {
	msgs, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.failures++
			p.log.Warn().Err(err).Int("consecutive_failures", p.failures).Msg("Thread poll failed, retrying next tick")
		}
		return nil, false
	}

	if p.failures > 0 {
		p.log.Info().Int("after_failures", p.failures).Msg("Thread poll recovered")
		p.failures = 0
	}

	var lastID int64
	if len(msgs) > 0 {
		lastID = msgs[len(msgs)-1].ID
	}

	// Threads are append-only, so length plus newest id identifies a snapshot.
	changed := !p.seen || len(msgs) != p.lastLen || lastID != p.lastID
	p.seen, p.lastLen, p.lastID = true, len(msgs), lastID

	return msgs, changed
}

// Failures returns the number of consecutive failed polls.
func (p *ChatPoller) Failures() int {
	return p.failures
}
