package model

import (
	"time"

	"gorm.io/datatypes"
)

// DictEntry is a cached CC-CEDICT entry for a simplified surface form.
// Senses holds the raw definition list as JSON so re-lookups do not hit
// the remote dictionary again.
type DictEntry struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Word      string         `gorm:"uniqueIndex;not null" json:"word"`
	Pinyin    string         `gorm:"not null" json:"pinyin"`
	Senses    datatypes.JSON `json:"senses"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (DictEntry) TableName() string {
	return "dict_entries"
}
