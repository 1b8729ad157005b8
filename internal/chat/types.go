package chat

import (
	"context"

	"github.com/huayu/api/internal/llm"
	"github.com/huayu/api/internal/model"
	"github.com/huayu/api/internal/vocab"
)

// Chatter is the model-call collaborator.
type Chatter interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Segmenter splits Chinese text into ordered word tokens.
type Segmenter interface {
	Segment(text string) []string
}

// Store is the persistence surface the orchestrator needs. *store.Store
// satisfies it; tests substitute fakes.
type Store interface {
	CreateConversation(topic *string) (int64, error)
	AppendMessage(conversationID int64, role, content string) (int64, error)
	ConversationByID(id int64) (*model.Conversation, error)
	WordBySurface(surface string) (*model.Word, error)
	RecordUsage(wordID int64, correct bool) (int64, error)
	WordsWithUsage() ([]vocab.WordUsage, error)
}

type TurnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is one incoming client turn: an ordered message list ending
// in a user message, plus optional conversation id, topic hint and
// new-word budget.
type TurnRequest struct {
	Messages                []TurnMessage `json:"messages"`
	ConversationID          string        `json:"conversationId"`
	NewWordsPerConversation int           `json:"newWordsPerConversation"`
	Topic                   string        `json:"topic"`
}

type Token struct {
	Word string `json:"word"`
}

type RecordedUsage struct {
	Word    string `json:"word"`
	Correct bool   `json:"correct"`
}

type TurnResponse struct {
	Content        string          `json:"content"`
	ConversationID string          `json:"conversationId"`
	MessageID      string          `json:"messageId"`
	Segments       []Token         `json:"segments"`
	UsageRecorded  []RecordedUsage `json:"usage_recorded"`
	MisusedWords   []string        `json:"misused_words,omitempty"`
}

// ValidationError marks malformed client input, caught before any model
// call or write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
