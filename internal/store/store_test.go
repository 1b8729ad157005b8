package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/huayu/api/internal/database"
	"github.com/huayu/api/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// A second pool connection would get its own empty in-memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return New(db)
}

func TestConversationRoundTrip(t *testing.T) {
	s := newTestStore(t)

	topic := "food"
	id, err := s.CreateConversation(&topic)
	require.NoError(t, err)
	require.NotZero(t, id)

	_, err = s.AppendMessage(id, model.RoleUser, "你好")
	require.NoError(t, err)
	_, err = s.AppendMessage(id, model.RoleAssistant, "你好！你想聊什么？")
	require.NoError(t, err)

	conv, err := s.ConversationByID(id)
	require.NoError(t, err)
	require.NotNil(t, conv.Topic)
	assert.Equal(t, "food", *conv.Topic)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "你好", conv.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, conv.Messages[1].Role)
}

func TestConversationByIDNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ConversationByID(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCurrentConversationFollowsActivity(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CurrentConversation()
	assert.ErrorIs(t, err, ErrNotFound)

	a := "first"
	b := "second"
	idA, err := s.CreateConversation(&a)
	require.NoError(t, err)
	idB, err := s.CreateConversation(&b)
	require.NoError(t, err)

	// Appending touches updated_at, so the older conversation becomes
	// current again.
	_, err = s.AppendMessage(idA, model.RoleUser, "回来")
	require.NoError(t, err)

	conv, err := s.CurrentConversation()
	require.NoError(t, err)
	assert.Equal(t, idA, conv.ID)
	assert.NotEqual(t, idB, conv.ID)
	require.Len(t, conv.Messages, 1)
}

func TestWordLookupAndUpdate(t *testing.T) {
	s := newTestStore(t)

	w := &model.Word{Word: "你好", Frequency: 7}
	require.NoError(t, s.CreateWord(w))
	require.NotZero(t, w.ID)

	got, err := s.WordBySurface("你好")
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, 7, got.Frequency)

	_, err = s.WordBySurface("再见")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpdateWordDetails(w.ID, "nǐ hǎo", "hello"))
	got, err = s.WordByID(w.ID)
	require.NoError(t, err)
	assert.Equal(t, "nǐ hǎo", got.Pinyin)
	assert.Equal(t, "hello", got.English)
}

func TestWordsMissingDetails(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateWord(&model.Word{Word: "好", Frequency: 2, Pinyin: "hǎo", English: "good"}))
	require.NoError(t, s.CreateWord(&model.Word{Word: "猫", Frequency: 9}))
	require.NoError(t, s.CreateWord(&model.Word{Word: "狗", Frequency: 5, Pinyin: "gǒu"}))

	missing, err := s.WordsMissingDetails(10)
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, "狗", missing[0].Word, "ordered by frequency rank")
	assert.Equal(t, "猫", missing[1].Word)
}

func TestMaxFrequency(t *testing.T) {
	s := newTestStore(t)

	max, err := s.MaxFrequency()
	require.NoError(t, err)
	assert.Equal(t, 0, max, "empty inventory")

	require.NoError(t, s.CreateWord(&model.Word{Word: "一", Frequency: 1}))
	require.NoError(t, s.CreateWord(&model.Word{Word: "猫", Frequency: 42}))

	max, err = s.MaxFrequency()
	require.NoError(t, err)
	assert.Equal(t, 42, max)
}

func TestWordsWithUsage(t *testing.T) {
	s := newTestStore(t)

	high := &model.Word{Word: "我", Frequency: 1}
	low := &model.Word{Word: "猫", Frequency: 30}
	require.NoError(t, s.CreateWord(low))
	require.NoError(t, s.CreateWord(high))

	_, err := s.RecordUsage(low.ID, true)
	require.NoError(t, err)
	_, err = s.RecordUsage(low.ID, false)
	require.NoError(t, err)

	pool, err := s.WordsWithUsage()
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "我", pool[0].Word.Word, "frequency rank ascending")
	assert.Empty(t, pool[0].Usage)
	assert.Equal(t, "猫", pool[1].Word.Word)
	require.Len(t, pool[1].Usage, 2)
}

func TestUsageForWord(t *testing.T) {
	s := newTestStore(t)

	w := &model.Word{Word: "吃", Frequency: 3}
	require.NoError(t, s.CreateWord(w))

	id, err := s.RecordUsage(w.ID, true)
	require.NoError(t, err)
	require.NotZero(t, id)

	usage, err := s.UsageForWord(w.ID)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, w.ID, usage[0].WordID)
	assert.True(t, usage[0].Correct)
}

func TestDictEntryRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DictEntryByWord("你好")
	assert.ErrorIs(t, err, ErrNotFound)

	e := &model.DictEntry{
		Word:   "你好",
		Pinyin: "nǐ hǎo",
		Senses: datatypes.JSON(`["hello","hi"]`),
	}
	require.NoError(t, s.SaveDictEntry(e))

	got, err := s.DictEntryByWord("你好")
	require.NoError(t, err)
	assert.Equal(t, "nǐ hǎo", got.Pinyin)
	assert.JSONEq(t, `["hello","hi"]`, string(got.Senses))
}
