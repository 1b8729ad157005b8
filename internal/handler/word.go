package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huayu/api/internal/dict"
	"github.com/huayu/api/internal/model"
	"github.com/huayu/api/internal/store"
	"github.com/huayu/api/internal/validator"
)

type WordHandler struct {
	store     *store.Store
	dict      *dict.Service
	validator *validator.WordValidator
}

func NewWordHandler(st *store.Store, d *dict.Service, v *validator.WordValidator) *WordHandler {
	return &WordHandler{store: st, dict: d, validator: v}
}

type usageEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Correct   bool      `json:"correct"`
}

type wordSummary struct {
	ID        int64  `json:"id"`
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
	Pinyin    string `json:"pinyin"`
	English   string `json:"english_translation"`
}

type wordDetail struct {
	wordSummary
	UsageHistory []usageEntry `json:"usage_history"`
}

func summarize(w *model.Word) wordSummary {
	return wordSummary{
		ID:        w.ID,
		Word:      w.Word,
		Frequency: w.Frequency,
		Pinyin:    w.Pinyin,
		English:   w.English,
	}
}

func (h *WordHandler) detail(w *model.Word) (wordDetail, error) {
	usage, err := h.store.UsageForWord(w.ID)
	if err != nil {
		return wordDetail{}, err
	}
	d := wordDetail{wordSummary: summarize(w), UsageHistory: make([]usageEntry, 0, len(usage))}
	for _, u := range usage {
		d.UsageHistory = append(d.UsageHistory, usageEntry{Timestamp: u.Timestamp, Correct: u.Correct})
	}
	return d, nil
}

// List serves GET /api/words and, with ?word=, a single word's detail.
func (h *WordHandler) List(c *gin.Context) {
	if surface := c.Query("word"); surface != "" {
		w, err := h.store.WordBySurface(surface)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		d, err := h.detail(w)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, d)
		return
	}

	words, err := h.store.AllWords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	out := make([]wordSummary, 0, len(words))
	for i := range words {
		out = append(out, summarize(&words[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get serves GET /api/words/:id.
func (h *WordHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	w, err := h.store.WordByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	d, err := h.detail(w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, d)
}

type lookupRequest struct {
	Word string `json:"word" binding:"required"`
}

// Lookup serves POST /api/words: resolve a surface form through the
// dictionary, creating the Word row on first sight.
func (h *WordHandler) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "word is required"})
		return
	}
	surface := strings.TrimSpace(req.Word)
	if !h.validator.IsValid(surface) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a valid Chinese word"})
		return
	}

	w, err := h.dict.LookupOrCreate(c.Request.Context(), surface)
	if err != nil {
		if errors.Is(err, dict.ErrNoEntry) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no dictionary entry for word"})
			return
		}
		log.Printf("[words] lookup %q failed: %v", surface, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	d, err := h.detail(w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, d)
}
