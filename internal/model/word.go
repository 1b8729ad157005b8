package model

import (
	"time"
)

// Word is one entry of the learner's word inventory. Rows are created on
// first dictionary lookup of an unseen surface form and never deleted;
// Frequency and English may be back-filled later.
type Word struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Word        string    `gorm:"uniqueIndex;not null" json:"word"`
	Frequency   int       `gorm:"not null;index" json:"frequency"`
	Pinyin      string    `gorm:"not null" json:"pinyin"`
	English     string    `gorm:"column:english_translation;not null" json:"english_translation"`
	CreatedAt   time.Time `json:"createdAt"`
	UsageEvents []UsageRecord `gorm:"foreignKey:WordID" json:"-"`
}

func (Word) TableName() string {
	return "words"
}

// UsageRecord is one observed use of a word in a user turn. Append-only;
// correctness is binary.
type UsageRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WordID    int64     `gorm:"not null;index" json:"wordId"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Correct   bool      `gorm:"not null" json:"correct"`
}

func (UsageRecord) TableName() string {
	return "usage_history"
}
