package agent

import (
	"time"

	"github.com/google/uuid"
)

// Message is one immutable turn of a conversation. The timestamp is
// assigned when the message is appended to a session.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ContextMessage is the role/content pair sent upstream as chat context;
// timestamps are dropped on the wire.
type ContextMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds the ordered message log of one conversation. Message
// order is insertion order and is semantically meaningful: it is the
// literal context sent with every chat request.
//
// A Session owns its messages exclusively and is not safe for concurrent
// mutation without external synchronization.
type Session struct {
	id       string
	messages []Message
	metadata map[string]interface{}
	now      func() time.Time
}

// NewSession creates an empty session with a fresh conversation ID.
func NewSession() *Session {
	return &Session{
		id:       uuid.NewString(),
		metadata: make(map[string]interface{}),
		now:      time.Now,
	}
}

// ID returns the conversation identifier. It survives Clear.
func (s *Session) ID() string { return s.id }

// AddMessage appends a message with the current timestamp.
func (s *Session) AddMessage(role, content string) {
	s.messages = append(s.messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
}

// Context returns the ordered role/content pairs for inclusion as the
// context field of a chat request. The returned slice is a copy; it is
// never empty-nil so it serializes as a JSON array.
func (s *Session) Context() []ContextMessage {
	context := make([]ContextMessage, len(s.messages))
	for i, msg := range s.messages {
		context[i] = ContextMessage{Role: msg.Role, Content: msg.Content}
	}
	return context
}

// Messages returns a copy of the full message log.
func (s *Session) Messages() []Message {
	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	return messages
}

// Len returns the number of messages in the log.
func (s *Session) Len() int { return len(s.messages) }

// Clear empties the message log. The conversation ID and metadata are
// preserved so the same session continues under a fresh history.
func (s *Session) Clear() {
	s.messages = nil
}

// SetMetadata stores an arbitrary session-level value.
func (s *Session) SetMetadata(key string, value interface{}) {
	s.metadata[key] = value
}

// Metadata returns the session-level value for key, if present.
func (s *Session) Metadata(key string) (interface{}, bool) {
	value, ok := s.metadata[key]
	return value, ok
}
