package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huayu/api/internal/config"
	"github.com/huayu/api/internal/store"
	"github.com/huayu/api/internal/vocab"
)

type VocabularyHandler struct {
	store *store.Store
}

func NewVocabularyHandler(st *store.Store) *VocabularyHandler {
	return &VocabularyHandler{store: st}
}

type vocabWordDetail struct {
	wordSummary
	CreatedAt *time.Time   `json:"created_at"`
	Usage     []usageEntry `json:"usage"`
}

// Get serves GET /api/vocabulary: the selected vocabulary for a turn,
// with ?debug= adding per-word scoring inputs.
func (h *VocabularyHandler) Get(c *gin.Context) {
	newK := config.DefaultNewWords
	if raw := c.Query("newWordsPerConversation"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			newK = config.ClampNewWords(n)
		}
	}
	debug := c.Query("debug")
	wantDebug := debug == "true" || debug == "1" || debug == "yes"

	pool, err := h.store.WordsWithUsage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	selected := vocab.Select(pool, config.VocabTopN, newK, time.Now())

	if !wantDebug {
		c.JSON(http.StatusOK, gin.H{"vocabulary": selected})
		return
	}

	details := make([]vocabWordDetail, 0, len(selected))
	for _, surface := range selected {
		w, err := h.store.WordBySurface(surface)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		usage, err := h.store.UsageForWord(w.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		d := vocabWordDetail{wordSummary: summarize(w), CreatedAt: &w.CreatedAt}
		for _, u := range usage {
			d.Usage = append(d.Usage, usageEntry{Timestamp: u.Timestamp, Correct: u.Correct})
		}
		details = append(details, d)
	}
	c.JSON(http.StatusOK, gin.H{"vocabulary": details})
}
