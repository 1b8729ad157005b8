package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huayu/api/internal/store"
)

type ConversationHandler struct {
	store *store.Store
}

func NewConversationHandler(st *store.Store) *ConversationHandler {
	return &ConversationHandler{store: st}
}

type conversationMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Current serves GET /api/conversations/current: the most recently
// updated conversation, empty-shaped when none exists yet.
func (h *ConversationHandler) Current(c *gin.Context) {
	conv, err := h.store.CurrentConversation()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"id": nil, "topic": nil, "messages": []conversationMessage{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	messages := make([]conversationMessage, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		messages = append(messages, conversationMessage{
			ID:      strconv.FormatInt(m.ID, 10),
			Role:    m.Role,
			Content: m.Content,
		})
	}

	payload := gin.H{
		"id":        strconv.FormatInt(conv.ID, 10),
		"messages":  messages,
		"createdAt": conv.CreatedAt,
	}
	if conv.Topic != nil {
		payload["topic"] = *conv.Topic
	}
	if conv.UpdatedAt != nil {
		payload["updatedAt"] = *conv.UpdatedAt
	}
	c.JSON(http.StatusOK, payload)
}
