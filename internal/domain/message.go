// Package domain defines the core domain models for the chat relay.
package domain

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. Messages are never modified after creation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a message authored by the user.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates a message authored by the model.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// History is the ordered conversation record of one session, oldest first.
type History []Message

// Append returns a copy of h with msg added at the end. h itself is left untouched.
func (h History) Append(msg Message) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, msg)
}

// Last returns the most recent message, if any.
func (h History) Last() (Message, bool) {
	if len(h) == 0 {
		return Message{}, false
	}
	return h[len(h)-1], true
}
