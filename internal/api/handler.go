package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskative-core/server/internal/agent/model"
	errx "github.com/taskative-core/server/internal/core/error"
	"github.com/taskative-core/server/internal/store"
	logx "github.com/taskative-core/server/pkg/logger"
)

// AgentRunner is the slice of the agent the chat endpoint needs; satisfied
// by *agent.Runner and by fakes in tests.
type AgentRunner interface {
	Run(ctx context.Context, userID string, history []store.Message, newMessage string) (string, []model.ToolCall)
}

// Handler serves the chat endpoint. It holds no per-request state: each
// request reconstructs its context from the store and discards it.
type Handler struct {
	store  *store.Store
	runner AgentRunner
}

func NewHandler(st *store.Store, runner AgentRunner) *Handler {
	return &Handler{store: st, runner: runner}
}

type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID *int64 `json:"conversation_id"`
}

type ChatResponse struct {
	ConversationID int64            `json:"conversation_id"`
	Response       string           `json:"response"`
	ToolCalls      []model.ToolCall `json:"tool_calls"`
}

// Chat handles POST /api/:user_id/chat. The chat response is HTTP 200 even
// when the model upstream fails; only conversation resolution and malformed
// input produce error statuses.
func (h *Handler) Chat(c *gin.Context) {
	userID := c.Param("user_id")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload"})
		return
	}

	ctx := c.Request.Context()

	var (
		conv    *store.Conversation
		history []store.Message
		err     error
	)
	if req.ConversationID != nil {
		conv, err = h.store.GetConversation(ctx, *req.ConversationID)
		if errors.Is(err, store.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": errx.ConversationNotFoundMessage})
			return
		}
		if err != nil {
			h.fail(c, err, "failed to load conversation")
			return
		}
		if conv.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"detail": errx.NotAuthorizedMessage})
			return
		}

		history, err = h.store.ListMessages(ctx, conv.ID)
		if err != nil {
			h.fail(c, err, "failed to load history")
			return
		}
	} else {
		conv, err = h.store.CreateConversation(ctx, userID)
		if err != nil {
			h.fail(c, err, "failed to create conversation")
			return
		}
	}

	// The user turn is persisted before the agent runs, so a model failure
	// never loses the incoming message.
	if _, err := h.store.AppendMessage(ctx, conv.ID, userID, store.RoleUser, req.Message); err != nil {
		h.fail(c, err, "failed to persist user message")
		return
	}

	reply, toolCalls := h.runner.Run(ctx, userID, history, req.Message)

	if _, err := h.store.AppendMessage(ctx, conv.ID, userID, store.RoleAssistant, reply); err != nil {
		h.fail(c, err, "failed to persist assistant message")
		return
	}
	if err := h.store.TouchConversation(ctx, conv.ID); err != nil {
		h.fail(c, err, "failed to touch conversation")
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		ConversationID: conv.ID,
		Response:       reply,
		ToolCalls:      toolCalls,
	})
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	logx.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	c.JSON(errx.StatusOf(err), gin.H{"detail": errx.MessageOf(err)})
}

// Root serves the service banner.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Taskative API",
		"endpoints": gin.H{
			"chat": "POST /api/{user_id}/chat",
		},
	})
}

// Health reports liveness including storage reachability.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.DB().PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "detail": errx.StorageErrorMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": "stateless"})
}
