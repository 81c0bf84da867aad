package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/articlehub/articlehub-backend/internal/service"
	ws "github.com/articlehub/articlehub-backend/internal/websocket"
	"github.com/articlehub/articlehub-backend/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams one chat thread over a WebSocket.
type WSHandler struct {
	chat         *service.ChatService
	pollInterval time.Duration
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(chat *service.ChatService, pollInterval time.Duration, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		chat:         chat,
		pollInterval: pollInterval,
		log:          log.With().Str("component", "ws_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// ChatStream godoc
// WS /ws/chat/:username
// Sends a snapshot of the thread, then pushes each new message as it is published.
// A poller re-sends the snapshot whenever the stored thread changes, which also covers
// messages whose publish was lost.
func (h *WSHandler) ChatStream(c *gin.Context) {
	thread := strings.TrimSpace(c.Param("username"))
	if thread == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "thread name is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsLog := h.log.With().Str("thread", thread).Logger()
	wsLog.Info().Msg("Chat stream connected")

	// Subscribe before the first snapshot so nothing published in between is missed.
	var pushed <-chan model.ChatMessage
	sub, err := h.chat.Subscribe(ctx, thread)
	if err != nil {
		wsLog.Warn().Err(err).Msg("Push unavailable, falling back to polling only")
	} else {
		defer sub.Close()
		pushed = sub.Messages()
	}

	snapshots := make(chan []model.ChatMessage, 1)
	poller := worker.NewChatPoller(h.pollInterval, func(ctx context.Context) ([]model.ChatMessage, error) {
		return h.chat.ListThread(ctx, thread)
	}, wsLog)
	go poller.Start(ctx, func(msgs []model.ChatMessage) {
		select {
		case snapshots <- msgs:
		case <-ctx.Done():
		}
	})

	actions := make(chan ws.Action)
	go func() {
		defer cancel()
		for {
			var req ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			select {
			case actions <- req.Action:
			case <-ctx.Done():
				return
			}
		}
	}()

	// All writes happen on this goroutine.
	for {
		var err error
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-pushed:
			if !ok {
				wsLog.Warn().Msg("Push subscription ended, continuing with polling")
				pushed = nil
				continue
			}
			err = ws.WriteTyped(conn, ws.MessageResponse{Event: ws.EventMessage, Thread: thread, Message: msg})

		case msgs := <-snapshots:
			err = ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Thread: thread, Messages: msgs})

		case action := <-actions:
			err = h.handleAction(ctx, conn, thread, action)
		}

		if err != nil {
			wsLog.Debug().Err(err).Msg("Write failed, closing stream")
			return
		}
	}
}

func (h *WSHandler) handleAction(ctx context.Context, conn *websocket.Conn, thread string, action ws.Action) error {
	switch action {
	case ws.ActionPing:
		return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
	case ws.ActionRefresh:
		msgs, err := h.chat.ListThread(ctx, thread)
		if err != nil {
			h.log.Warn().Err(err).Str("thread", thread).Msg("Refresh failed")
			return ws.WriteError(conn, "thread temporarily unavailable")
		}
		return ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Thread: thread, Messages: msgs})
	default:
		return ws.WriteError(conn, "unknown action: "+string(action))
	}
}
