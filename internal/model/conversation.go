package model

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTopic is stored when the client supplies no topic.
const DefaultTopic = "general conversation"

type Conversation struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic     *string    `json:"topic"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	Messages  []Message  `gorm:"foreignKey:ConversationID" json:"messages"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Message rows are append-only and ordered by CreatedAt within a
// conversation; that ordering is the sole one used to rebuild model
// context.
type Message struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64     `gorm:"not null;index" json:"conversationId"`
	Role           string    `gorm:"not null" json:"role"`
	Content        string    `gorm:"not null" json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
