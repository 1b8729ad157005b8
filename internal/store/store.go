// Package store is the persistence handle the orchestrator and handlers
// are constructed with. It owns every query; nothing else in the core
// touches the database directly.
package store

import (
	"time"

	"github.com/huayu/api/internal/model"
	"github.com/huayu/api/internal/vocab"
	"gorm.io/gorm"
)

// ErrNotFound is returned for missing rows.
var ErrNotFound = gorm.ErrRecordNotFound

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateConversation(topic *string) (int64, error) {
	now := time.Now()
	conv := model.Conversation{
		Topic:     topic,
		UpdatedAt: &now,
	}
	if err := s.db.Create(&conv).Error; err != nil {
		return 0, err
	}
	return conv.ID, nil
}

// AppendMessage inserts a message row and touches the conversation's
// updated_at, matching the append order the caller performed them in.
func (s *Store) AppendMessage(conversationID int64, role, content string) (int64, error) {
	now := time.Now()
	if err := s.db.Model(&model.Conversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", now).Error; err != nil {
		return 0, err
	}
	msg := model.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// ConversationByID loads a conversation with its messages in append
// order. The id tie-break covers messages sharing a timestamp.
func (s *Store) ConversationByID(id int64) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&conv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// CurrentConversation returns the most recently updated conversation, or
// ErrNotFound when none exists yet.
func (s *Store) CurrentConversation() (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.
		Order("COALESCE(updated_at, created_at) DESC").
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return s.ConversationByID(conv.ID)
}

func (s *Store) WordByID(id int64) (*model.Word, error) {
	var w model.Word
	if err := s.db.First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) WordBySurface(surface string) (*model.Word, error) {
	var w model.Word
	if err := s.db.First(&w, "word = ?", surface).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) CreateWord(w *model.Word) error {
	return s.db.Create(w).Error
}

// UpdateWordDetails back-fills pinyin and gloss on an existing word.
func (s *Store) UpdateWordDetails(id int64, pinyin, english string) error {
	return s.db.Model(&model.Word{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"pinyin": pinyin, "english_translation": english}).Error
}

// AllWords lists the inventory ordered by frequency rank ascending.
func (s *Store) AllWords() ([]model.Word, error) {
	var words []model.Word
	if err := s.db.Order("frequency ASC").Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

// WordsMissingDetails returns words whose pinyin or gloss is still empty,
// for the backfill scheduler.
func (s *Store) WordsMissingDetails(limit int) ([]model.Word, error) {
	var words []model.Word
	err := s.db.
		Where("pinyin = '' OR english_translation = ''").
		Order("frequency ASC").
		Limit(limit).
		Find(&words).Error
	if err != nil {
		return nil, err
	}
	return words, nil
}

// MaxFrequency is the fallback rank source for words absent from the
// frequency file: MAX(frequency) over the inventory, 0 when empty.
func (s *Store) MaxFrequency() (int, error) {
	var max int
	err := s.db.Model(&model.Word{}).
		Select("COALESCE(MAX(frequency), 0)").
		Scan(&max).Error
	return max, err
}

func (s *Store) UsageForWord(wordID int64) ([]model.UsageRecord, error) {
	var usage []model.UsageRecord
	err := s.db.
		Where("word_id = ?", wordID).
		Order("timestamp DESC").
		Find(&usage).Error
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// RecordUsage appends one usage event. A single insert, so the event is
// atomic: a crash cannot split or duplicate it.
func (s *Store) RecordUsage(wordID int64, correct bool) (int64, error) {
	rec := model.UsageRecord{
		WordID:    wordID,
		Timestamp: time.Now(),
		Correct:   correct,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// WordsWithUsage snapshots the whole inventory with usage histories for
// the vocabulary selector. Words come back ordered by frequency rank so
// selection tie-breaks are reproducible.
func (s *Store) WordsWithUsage() ([]vocab.WordUsage, error) {
	var words []model.Word
	err := s.db.
		Preload("UsageEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC")
		}).
		Order("frequency ASC").
		Find(&words).Error
	if err != nil {
		return nil, err
	}

	pool := make([]vocab.WordUsage, 0, len(words))
	for _, w := range words {
		usage := make([]vocab.Usage, 0, len(w.UsageEvents))
		for _, u := range w.UsageEvents {
			usage = append(usage, vocab.Usage{Timestamp: u.Timestamp, Correct: u.Correct})
		}
		pool = append(pool, vocab.WordUsage{Word: w, Usage: usage})
	}
	return pool, nil
}

func (s *Store) DictEntryByWord(word string) (*model.DictEntry, error) {
	var e model.DictEntry
	if err := s.db.First(&e, "word = ?", word).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) SaveDictEntry(e *model.DictEntry) error {
	return s.db.Create(e).Error
}
