package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huayu/api/internal/chat"
)

// Responder is the turn pipeline; *chat.Orchestrator satisfies it.
type Responder interface {
	Respond(ctx context.Context, req *chat.TurnRequest) (*chat.TurnResponse, error)
}

type ChatHandler struct {
	orch Responder
}

func NewChatHandler(orch Responder) *ChatHandler {
	return &ChatHandler{orch: orch}
}

// Handle runs one conversation turn. Validation problems come back 400;
// everything else surfaces as 500 with the error message, which for
// model-call failures is safe to expose.
func (h *ChatHandler) Handle(c *gin.Context) {
	var req chat.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages array required"})
		return
	}

	resp, err := h.orch.Respond(c.Request.Context(), &req)
	if err != nil {
		if chat.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[chat] turn failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
