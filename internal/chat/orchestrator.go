// Package chat sequences the model calls, vocabulary selection and usage
// recording that make up one tutor turn.
package chat

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huayu/api/internal/config"
	"github.com/huayu/api/internal/llm"
	"github.com/huayu/api/internal/middleware"
	"github.com/huayu/api/internal/model"
	"github.com/huayu/api/internal/vocab"
)

// correctnessContext is how many trailing messages the yes/no check sees.
const correctnessContext = 6

// placeholderRe matches first messages that carry no real content; the
// model is asked to invent a topic instead.
var placeholderRe = regexp.MustCompile(`(?i)^(start|begin|go|hi|hello|start conversation)$`)

type Orchestrator struct {
	store   Store
	chatter Chatter
	seg     Segmenter
	cfg     *config.Config
	now     func() time.Time
}

func New(st Store, chatter Chatter, seg Segmenter, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		store:   st,
		chatter: chatter,
		seg:     seg,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Respond runs one turn to completion: resolve the conversation, select
// the vocabulary, make the model calls in order, persist messages and
// usage events, and build the response payload.
//
// Concurrent turns against the same conversation id are not serialized
// here; interleaved writes are an accepted limitation of the design.
func (o *Orchestrator) Respond(ctx context.Context, req *TurnRequest) (*TurnResponse, error) {
	if len(req.Messages) == 0 {
		return nil, &ValidationError{Reason: "messages array required"}
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != model.RoleUser {
		return nil, &ValidationError{Reason: "last message must be from user"}
	}

	newK := config.ClampNewWords(req.NewWordsPerConversation)
	pool, err := o.store.WordsWithUsage()
	if err != nil {
		return nil, err
	}
	vocabList := vocab.Select(pool, config.VocabTopN, newK, o.now())

	existing := o.resolveConversation(req.ConversationID)

	if existing == nil && len(req.Messages) == 1 {
		return o.newConversationTurn(ctx, req, last, vocabList)
	}
	return o.continuationTurn(ctx, req, last, vocabList, existing)
}

// resolveConversation loads the conversation the client named, or nil
// when the id is absent, malformed or unknown.
func (o *Orchestrator) resolveConversation(raw string) *model.Conversation {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	conv, err := o.store.ConversationByID(id)
	if err != nil {
		return nil
	}
	return conv
}

// newConversationTurn covers S1 (priming) and S2 (first reply). The
// priming call's output is discarded and its content never validated;
// only a transport or credential failure aborts the turn.
func (o *Orchestrator) newConversationTurn(ctx context.Context, req *TurnRequest, last TurnMessage, vocabList []string) (*TurnResponse, error) {
	_, err := o.chatter.Chat(ctx, []llm.Message{
		{Role: "system", Content: buildPrimingPrompt(vocabList)},
		{Role: "user", Content: primingUserPrompt},
	})
	middleware.ObserveLLMCall("prime", err)
	if err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = model.DefaultTopic
	}
	conversationID, err := o.store.CreateConversation(&topic)
	if err != nil {
		return nil, err
	}

	firstContent := strings.TrimSpace(last.Content)
	promptForModel := firstContent
	if firstContent == "" || placeholderRe.MatchString(firstContent) {
		promptForModel = randomTopicPrompt
	}

	raw, err := o.chatter.Chat(ctx, []llm.Message{
		{Role: "system", Content: buildFirstReplyPrompt(vocabList, topic)},
		{Role: "user", Content: promptForModel},
	})
	middleware.ObserveLLMCall("first_reply", err)
	if err != nil {
		return nil, err
	}
	display := llm.StripMisusedBlock(raw)

	// The stored user message keeps the original content, not the
	// substituted placeholder prompt.
	if _, err := o.store.AppendMessage(conversationID, model.RoleUser, last.Content); err != nil {
		return nil, err
	}
	messageID, err := o.store.AppendMessage(conversationID, model.RoleAssistant, display)
	if err != nil {
		return nil, err
	}

	// No usage recording on this path: there is no prior user content to
	// grade.
	return &TurnResponse{
		Content:        display,
		ConversationID: strconv.FormatInt(conversationID, 10),
		MessageID:      strconv.FormatInt(messageID, 10),
		Segments:       toTokens(o.seg.Segment(display)),
		UsageRecorded:  []RecordedUsage{},
	}, nil
}

// continuationTurn covers S3 (resolve), S4 (yes/no correctness check)
// and S5 (main reply with in-band grading).
func (o *Orchestrator) continuationTurn(ctx context.Context, req *TurnRequest, last TurnMessage, vocabList []string, existing *model.Conversation) (*TurnResponse, error) {
	var conversationID int64
	topic := strings.TrimSpace(req.Topic)
	if existing != nil {
		conversationID = existing.ID
		if existing.Topic != nil && strings.TrimSpace(*existing.Topic) != "" {
			topic = *existing.Topic
		}
	} else {
		if topic == "" {
			topic = model.DefaultTopic
		}
		var err error
		conversationID, err = o.store.CreateConversation(&topic)
		if err != nil {
			return nil, err
		}
	}
	if topic == "" {
		topic = model.DefaultTopic
	}

	usageRecorded := []RecordedUsage{}
	allCorrect := false

	if len(req.Messages) >= 2 {
		recent := req.Messages
		if len(recent) > correctnessContext {
			recent = recent[len(recent)-correctnessContext:]
		}
		reply, err := o.chatter.Chat(ctx, []llm.Message{
			{Role: "system", Content: yesNoSystemPrompt},
			{Role: "user", Content: buildCorrectnessPrompt(recent, last.Content)},
		})
		middleware.ObserveLLMCall("correctness", err)
		if err != nil {
			return nil, err
		}
		if llm.ParseYesNo(reply) {
			allCorrect = true
			recorded, err := o.recordAllCorrect(o.seg.Segment(last.Content))
			if err != nil {
				return nil, err
			}
			usageRecorded = append(usageRecorded, recorded...)
		}
	}

	apiMessages := make([]llm.Message, 0, len(req.Messages)+1)
	apiMessages = append(apiMessages, llm.Message{Role: "system", Content: buildContinuationPrompt(vocabList)})
	for _, m := range req.Messages {
		apiMessages = append(apiMessages, llm.Message{Role: m.Role, Content: m.Content})
	}
	raw, err := o.chatter.Chat(ctx, apiMessages)
	middleware.ObserveLLMCall("reply", err)
	if err != nil {
		return nil, err
	}

	misused := llm.ExtractMisusedWords(raw)
	display := llm.StripMisusedBlock(raw)

	if _, err := o.store.AppendMessage(conversationID, model.RoleUser, last.Content); err != nil {
		return nil, err
	}
	messageID, err := o.store.AppendMessage(conversationID, model.RoleAssistant, display)
	if err != nil {
		return nil, err
	}

	if len(req.Messages) >= 2 && !allCorrect {
		recorded, err := o.recordGraded(o.seg.Segment(last.Content), vocabList, misused)
		if err != nil {
			return nil, err
		}
		usageRecorded = append(usageRecorded, recorded...)
	}

	resp := &TurnResponse{
		Content:        display,
		ConversationID: strconv.FormatInt(conversationID, 10),
		MessageID:      strconv.FormatInt(messageID, 10),
		Segments:       toTokens(o.seg.Segment(display)),
		UsageRecorded:  usageRecorded,
	}
	if len(misused) > 0 {
		resp.MisusedWords = misused
	}
	return resp, nil
}

func toTokens(words []string) []Token {
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, Token{Word: w})
	}
	return tokens
}

// IsValidation reports whether err is client-input validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
