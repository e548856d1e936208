package domain

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		want   Intent
	}{
		{"send message", http.MethodPost, `{"message":"hi"}`, SendMessage{Message: "hi"}},
		{"new conversation", http.MethodPost, `{"newConversation":true}`, NewConversation{}},
		{"new conversation wins over message", http.MethodPost, `{"newConversation":true,"message":"hi"}`, NewConversation{}},
		{"false flag falls through to message", http.MethodPost, `{"newConversation":false,"message":"hi"}`, SendMessage{Message: "hi"}},
		{"whitespace message is kept", http.MethodPost, `{"message":"  "}`, SendMessage{Message: "  "}},
		{"unknown fields ignored", http.MethodPost, `{"message":"hi","extra":1}`, SendMessage{Message: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.method, []byte(tt.body)))
		})
	}
}

func TestParseIntentInvalid(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		body    string
		wantErr error
	}{
		{"get", http.MethodGet, ``, ErrMethodNotAllowed},
		{"put with valid body", http.MethodPut, `{"message":"hi"}`, ErrMethodNotAllowed},
		{"empty body", http.MethodPost, ``, ErrMessageRequired},
		{"empty object", http.MethodPost, `{}`, ErrMessageRequired},
		{"empty message", http.MethodPost, `{"message":""}`, ErrMessageRequired},
		{"null message", http.MethodPost, `{"message":null}`, ErrMessageRequired},
		{"malformed json", http.MethodPost, `{"message":`, ErrInvalidBody},
		{"array body", http.MethodPost, `["hi"]`, ErrInvalidBody},
		{"null body", http.MethodPost, `null`, ErrInvalidBody},
		{"message wrong type", http.MethodPost, `{"message":42}`, ErrInvalidBody},
		{"flag wrong type", http.MethodPost, `{"newConversation":"yes"}`, ErrInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIntent(tt.method, []byte(tt.body))
			invalid, ok := got.(Invalid)
			require.True(t, ok, "expected Invalid, got %#v", got)
			assert.True(t, errors.Is(invalid.Err, tt.wantErr), "got %v", invalid.Err)
		})
	}
}

func TestHistoryAppendDoesNotAlias(t *testing.T) {
	base := make(History, 1, 4)
	base[0] = UserMessage("one")

	a := base.Append(AssistantMessage("a"))
	b := base.Append(AssistantMessage("b"))

	assert.Len(t, base, 1)
	assert.Equal(t, "a", a[1].Content)
	assert.Equal(t, "b", b[1].Content)

	last, ok := a.Last()
	require.True(t, ok)
	assert.Equal(t, RoleAssistant, last.Role)

	_, ok = History(nil).Last()
	assert.False(t, ok)
}
