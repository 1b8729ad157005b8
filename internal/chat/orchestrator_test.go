package chat

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huayu/api/internal/config"
	"github.com/huayu/api/internal/llm"
	"github.com/huayu/api/internal/model"
	"github.com/huayu/api/internal/store"
	"github.com/huayu/api/internal/vocab"
)

type appendedMessage struct {
	conversationID int64
	role           string
	content        string
}

type recordedEvent struct {
	wordID  int64
	correct bool
}

type fakeStore struct {
	conversations map[int64]*model.Conversation
	words         map[string]*model.Word
	pool          []vocab.WordUsage

	nextID   int64
	appended []appendedMessage
	usage    []recordedEvent
	topics   []*string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: map[int64]*model.Conversation{},
		words:         map[string]*model.Word{},
		nextID:        100,
	}
}

func (f *fakeStore) addWord(surface string, rank int, inPool bool) {
	f.nextID++
	w := &model.Word{ID: f.nextID, Word: surface, Frequency: rank}
	f.words[surface] = w
	if inPool {
		f.pool = append(f.pool, vocab.WordUsage{Word: *w})
	}
}

func (f *fakeStore) CreateConversation(topic *string) (int64, error) {
	f.nextID++
	f.topics = append(f.topics, topic)
	f.conversations[f.nextID] = &model.Conversation{ID: f.nextID, Topic: topic}
	return f.nextID, nil
}

func (f *fakeStore) AppendMessage(conversationID int64, role, content string) (int64, error) {
	f.nextID++
	f.appended = append(f.appended, appendedMessage{conversationID, role, content})
	return f.nextID, nil
}

func (f *fakeStore) ConversationByID(id int64) (*model.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return conv, nil
}

func (f *fakeStore) WordBySurface(surface string) (*model.Word, error) {
	w, ok := f.words[surface]
	if !ok {
		return nil, store.ErrNotFound
	}
	return w, nil
}

func (f *fakeStore) RecordUsage(wordID int64, correct bool) (int64, error) {
	f.nextID++
	f.usage = append(f.usage, recordedEvent{wordID, correct})
	return f.nextID, nil
}

func (f *fakeStore) WordsWithUsage() ([]vocab.WordUsage, error) {
	return f.pool, nil
}

type fakeChatter struct {
	replies []string
	errs    []error
	calls   [][]llm.Message
}

func (f *fakeChatter) Chat(_ context.Context, messages []llm.Message) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, messages)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", nil
}

// fieldSegmenter splits on whitespace so test fixtures can spell out
// token boundaries.
type fieldSegmenter struct{}

func (fieldSegmenter) Segment(text string) []string { return strings.Fields(text) }

func newTestOrchestrator(st Store, chatter Chatter) *Orchestrator {
	return New(st, chatter, fieldSegmenter{}, config.Load())
}

func TestRespondRejectsEmptyMessages(t *testing.T) {
	st := newFakeStore()
	ch := &fakeChatter{}
	o := newTestOrchestrator(st, ch)

	_, err := o.Respond(context.Background(), &TurnRequest{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, ch.calls, "no model call before validation")
}

func TestRespondRejectsNonUserLastMessage(t *testing.T) {
	st := newFakeStore()
	ch := &fakeChatter{}
	o := newTestOrchestrator(st, ch)

	_, err := o.Respond(context.Background(), &TurnRequest{
		Messages: []TurnMessage{{Role: "assistant", Content: "你好"}},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, ch.calls)
}

func TestNewConversationTurn(t *testing.T) {
	st := newFakeStore()
	st.addWord("你", 1, true)
	st.addWord("好", 2, true)
	ch := &fakeChatter{replies: []string{
		"Acknowledged.",
		"你好！今天我们说吃饭。\n{\"misused_words\": []}",
	}}
	o := newTestOrchestrator(st, ch)

	resp, err := o.Respond(context.Background(), &TurnRequest{
		Messages:                []TurnMessage{{Role: "user", Content: "food"}},
		NewWordsPerConversation: 5,
	})
	require.NoError(t, err)

	require.Len(t, ch.calls, 2, "priming call then first reply")
	assert.Contains(t, ch.calls[0][0].Content, "Use ONLY these Chinese words")
	assert.Equal(t, "food", ch.calls[1][1].Content, "real content is not substituted")

	require.Len(t, st.appended, 2)
	assert.Equal(t, model.RoleUser, st.appended[0].role)
	assert.Equal(t, "food", st.appended[0].content)
	assert.Equal(t, model.RoleAssistant, st.appended[1].role)
	assert.Equal(t, "你好！今天我们说吃饭。", st.appended[1].content)

	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, "你好！今天我们说吃饭。", resp.Content)
	assert.Empty(t, resp.UsageRecorded, "first turn has nothing to grade")
	assert.Empty(t, st.usage)

	require.Len(t, st.topics, 1)
	assert.Equal(t, model.DefaultTopic, *st.topics[0])
}

func TestNewConversationPlaceholderSubstitution(t *testing.T) {
	st := newFakeStore()
	ch := &fakeChatter{replies: []string{"Acknowledged.", "我们聊聊天气吧。"}}
	o := newTestOrchestrator(st, ch)

	_, err := o.Respond(context.Background(), &TurnRequest{
		Messages: []TurnMessage{{Role: "user", Content: "Hello"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "discuss a random topic", ch.calls[1][1].Content)
	assert.Equal(t, "Hello", st.appended[0].content, "stored message keeps the raw content")
}

func TestNewConversationPrimingFailureAborts(t *testing.T) {
	st := newFakeStore()
	ch := &fakeChatter{errs: []error{llm.ErrNoAPIKey}}
	o := newTestOrchestrator(st, ch)

	_, err := o.Respond(context.Background(), &TurnRequest{
		Messages: []TurnMessage{{Role: "user", Content: "food"}},
	})
	require.ErrorIs(t, err, llm.ErrNoAPIKey)
	assert.Empty(t, st.appended, "no writes after a failed call")
	assert.Empty(t, st.topics, "conversation is not created")
}

func TestContinuationGradedUsage(t *testing.T) {
	st := newFakeStore()
	st.addWord("我", 1, true)
	st.addWord("猫", 2, true)
	// Known word kept out of the selection pool: never scored on the
	// graded path.
	st.addWord("喜欢", 3, false)

	convTopic := "pets"
	convID, _ := st.CreateConversation(&convTopic)

	ch := &fakeChatter{replies: []string{
		"no",
		"有一个小错误。继续努力！\n{\"misused_words\": [\"猫\"]}",
	}}
	o := newTestOrchestrator(st, ch)

	resp, err := o.Respond(context.Background(), &TurnRequest{
		Messages: []TurnMessage{
			{Role: "user", Content: "start"},
			{Role: "assistant", Content: "你好"},
			{Role: "user", Content: "我 喜欢 猫"},
		},
		ConversationID: itoa(convID),
	})
	require.NoError(t, err)

	require.Len(t, ch.calls, 2, "correctness check then main reply")
	assert.Equal(t, "Answer only yes or no.", ch.calls[0][0].Content)

	assert.Equal(t, []string{"猫"}, resp.MisusedWords)
	require.Len(t, resp.UsageRecorded, 2)
	assert.Equal(t, RecordedUsage{Word: "我", Correct: true}, resp.UsageRecorded[0])
	assert.Equal(t, RecordedUsage{Word: "猫", Correct: false}, resp.UsageRecorded[1])

	require.Len(t, st.usage, 2)
	assert.True(t, st.usage[0].correct)
	assert.False(t, st.usage[1].correct)

	require.Len(t, st.appended, 2)
	assert.Equal(t, "我 喜欢 猫", st.appended[0].content)
	assert.Equal(t, convID, st.appended[0].conversationID)
}

func TestContinuationAllCorrectShortCircuit(t *testing.T) {
	st := newFakeStore()
	st.addWord("我", 1, true)
	st.addWord("猫", 2, true)
	st.addWord("喜欢", 3, false)

	convTopic := "pets"
	convID, _ := st.CreateConversation(&convTopic)

	ch := &fakeChatter{replies: []string{
		"Yes, that is correct.",
		// A misused block on the all-correct path changes nothing.
		"太好了！\n{\"misused_words\": [\"猫\"]}",
	}}
	o := newTestOrchestrator(st, ch)

	resp, err := o.Respond(context.Background(), &TurnRequest{
		Messages: []TurnMessage{
			{Role: "user", Content: "start"},
			{Role: "assistant", Content: "你好"},
			{Role: "user", Content: "我 喜欢 猫"},
		},
		ConversationID: itoa(convID),
	})
	require.NoError(t, err)

	// Every known-word token is credited, vocabulary member or not.
	require.Len(t, resp.UsageRecorded, 3)
	for _, u := range resp.UsageRecorded {
		assert.True(t, u.Correct)
	}
	words := []string{resp.UsageRecorded[0].Word, resp.UsageRecorded[1].Word, resp.UsageRecorded[2].Word}
	assert.Equal(t, []string{"我", "喜欢", "猫"}, words)
}

func TestContinuationCorrectnessContextWindow(t *testing.T) {
	st := newFakeStore()
	convTopic := "long"
	convID, _ := st.CreateConversation(&convTopic)

	ch := &fakeChatter{replies: []string{"no", "继续。"}}
	o := newTestOrchestrator(st, ch)

	msgs := make([]TurnMessage, 0, 9)
	for i := 0; i < 8; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs = append(msgs, TurnMessage{Role: role, Content: "m" + itoa(int64(i))})
	}
	msgs = append(msgs, TurnMessage{Role: model.RoleUser, Content: "最后"})

	_, err := o.Respond(context.Background(), &TurnRequest{
		Messages:       msgs,
		ConversationID: itoa(convID),
	})
	require.NoError(t, err)

	prompt := ch.calls[0][1].Content
	assert.NotContains(t, prompt, "[user]: m0", "only the last 6 messages are quoted")
	assert.NotContains(t, prompt, "[assistant]: m1")
	assert.NotContains(t, prompt, "[user]: m2")
	assert.Contains(t, prompt, "[assistant]: m3")
	assert.Contains(t, prompt, "[user]: 最后")
}

func TestContinuationUnknownConversationCreatesOne(t *testing.T) {
	st := newFakeStore()
	ch := &fakeChatter{replies: []string{"no", "好的。"}}
	o := newTestOrchestrator(st, ch)

	resp, err := o.Respond(context.Background(), &TurnRequest{
		Messages: []TurnMessage{
			{Role: "user", Content: "你好"},
			{Role: "assistant", Content: "你好！"},
			{Role: "user", Content: "再见"},
		},
		ConversationID: "987654",
		Topic:          "farewells",
	})
	require.NoError(t, err)
	require.Len(t, st.topics, 1)
	assert.Equal(t, "farewells", *st.topics[0])
	assert.NotEqual(t, "987654", resp.ConversationID)
}

func TestContinuationReplyFailureLeavesNoWrites(t *testing.T) {
	st := newFakeStore()
	convTopic := "x"
	convID, _ := st.CreateConversation(&convTopic)

	ch := &fakeChatter{
		replies: []string{"no", ""},
		errs:    []error{nil, &llm.RemoteError{Status: 500, Body: "boom"}},
	}
	o := newTestOrchestrator(st, ch)

	_, err := o.Respond(context.Background(), &TurnRequest{
		Messages: []TurnMessage{
			{Role: "user", Content: "你好"},
			{Role: "assistant", Content: "你好！"},
			{Role: "user", Content: "再见"},
		},
		ConversationID: itoa(convID),
	})
	var remote *llm.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 500, remote.Status)
	assert.Empty(t, st.appended, "failed turn persists no messages")
	assert.Empty(t, st.usage)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
