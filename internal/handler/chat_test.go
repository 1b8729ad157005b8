package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huayu/api/internal/chat"
)

type fakeResponder struct {
	resp *chat.TurnResponse
	err  error
	got  *chat.TurnRequest
}

func (f *fakeResponder) Respond(_ context.Context, req *chat.TurnRequest) (*chat.TurnResponse, error) {
	f.got = req
	return f.resp, f.err
}

func chatRouter(r *fakeResponder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.POST("/api/chat", NewChatHandler(r).Handle)
	return e
}

func TestChatHandlerOK(t *testing.T) {
	fr := &fakeResponder{resp: &chat.TurnResponse{
		Content:        "你好！",
		ConversationID: "7",
		MessageID:      "12",
		Segments:       []chat.Token{{Word: "你好"}},
		UsageRecorded:  []chat.RecordedUsage{},
	}}
	router := chatRouter(fr)

	body := `{"messages":[{"role":"user","content":"food"}],"newWordsPerConversation":5}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.JSONEq(t, `"你好！"`, string(got["content"]))
	assert.JSONEq(t, `"7"`, string(got["conversationId"]))
	assert.JSONEq(t, `[]`, string(got["usage_recorded"]))
	_, present := got["misused_words"]
	assert.False(t, present, "empty misused list is omitted")

	require.NotNil(t, fr.got)
	assert.Equal(t, 5, fr.got.NewWordsPerConversation)
}

func TestChatHandlerMalformedBody(t *testing.T) {
	fr := &fakeResponder{}
	router := chatRouter(fr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"messages": "nope"`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "messages array required")
	assert.Nil(t, fr.got, "pipeline never runs on a bad body")
}

func TestChatHandlerValidationError(t *testing.T) {
	fr := &fakeResponder{err: &chat.ValidationError{Reason: "last message must be from user"}}
	router := chatRouter(fr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"messages":[{"role":"assistant","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "last message must be from user")
}

func TestChatHandlerUpstreamError(t *testing.T) {
	fr := &fakeResponder{err: errors.New("model call failed")}
	router := chatRouter(fr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "model call failed")
}
