package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huayu/api/internal/middleware"
	"github.com/huayu/api/internal/model"
	"github.com/huayu/api/internal/store"
)

type UsageHandler struct {
	store *store.Store
}

func NewUsageHandler(st *store.Store) *UsageHandler {
	return &UsageHandler{store: st}
}

type recordUsageRequest struct {
	WordID  *int64  `json:"wordId"`
	Word    *string `json:"word"`
	Correct *bool   `json:"correct"`
}

// Record serves POST /api/usage: one manual usage event, addressed by
// word id or surface form.
func (h *UsageHandler) Record(c *gin.Context) {
	var req recordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Correct == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "correct is required and must be boolean"})
		return
	}

	var word *model.Word
	if req.WordID != nil {
		if w, err := h.store.WordByID(*req.WordID); err == nil {
			word = w
		} else if !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}
	if word == nil && req.Word != nil {
		if w, err := h.store.WordBySurface(*req.Word); err == nil {
			word = w
		} else if !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}
	if word == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Word not found"})
		return
	}

	id, err := h.store.RecordUsage(word.ID, *req.Correct)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	middleware.ObserveUsageEvent(*req.Correct)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
