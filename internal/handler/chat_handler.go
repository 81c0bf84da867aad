package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/articlehub/articlehub-backend/internal/export"
	"github.com/articlehub/articlehub-backend/internal/middleware"
	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/articlehub/articlehub-backend/internal/response"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/articlehub/articlehub-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ChatHandler serves the polling chat endpoints.
type ChatHandler struct {
	chat *service.ChatService
	log  zerolog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *service.ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chat: chat,
		log:  log.With().Str("component", "chat_handler").Logger(),
	}
}

// ListUsers godoc
// GET /chat/users
// Returns every guest name with at least one message, sorted.
func (h *ChatHandler) ListUsers(c *gin.Context) {
	users, err := h.chat.ListRecipients(c.Request.Context())
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// UserMessages godoc
// GET /chat/userMessages/:username
// Returns one thread oldest first. Clients poll this endpoint.
func (h *ChatHandler) UserMessages(c *gin.Context) {
	messages, err := h.chat.ListThread(c.Request.Context(), c.Param("username"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": messages})
}

// Export godoc
// GET /chat/export/:username
// Downloads one thread as an XLSX workbook.
func (h *ChatHandler) Export(c *gin.Context) {
	thread := c.Param("username")
	messages, err := h.chat.ListThread(c.Request.Context(), thread)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteThreadXLSX(&buf, messages); err != nil {
		h.log.Error().Err(err).Str("thread", thread).Msg("Thread export failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := fmt.Sprintf("chat_%s_%s.xlsx", sanitizeFilename(thread), time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sanitizeFilename keeps letters, digits, dash and underscore.
func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "thread"
	}
	return string(out)
}

// Send godoc
// POST /chat/send
// Appends a message. The admin role is only granted to callers holding an app-user token;
// everyone else writes as a guest.
func (h *ChatHandler) Send(c *gin.Context) {
	var req model.SendMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	in := service.SendMessageInput{
		Role:       model.SenderGuest,
		SenderName: req.UserName,
		Recipient:  req.Recipient,
		Body:       req.Message,
	}

	switch {
	case claims != nil && claims.TokenType == service.TokenTypeAdmin:
		in.Role = model.SenderAdmin
	case req.UserID == string(model.SenderAdmin) && claims == nil:
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	case req.UserID == string(model.SenderAdmin):
		response.Fail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
		return
	case in.SenderName == "" && claims != nil:
		in.SenderName = claims.Name
	}

	msg, err := h.chat.Send(c.Request.Context(), in)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}
