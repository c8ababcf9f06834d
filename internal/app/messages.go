package app

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// Message is one half of a conversation turn. Immutable after creation.
type Message struct {
	ID        string
	Author    Author
	Text      string
	CreatedAt time.Time
}

// MessageLog is the append-only, insertion-ordered record of the
// conversation. Messages are never reordered or edited in place; the only
// destructive operation is Clear, reserved for session teardown.
type MessageLog struct {
	mu   sync.Mutex
	msgs []Message
}

func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// AppendUser records a user turn. Blank or whitespace-only text is rejected
// and reported via ok=false, mirroring the rule that a submission must carry
// real content.
func (l *MessageLog) AppendUser(text string) (Message, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, false
	}
	return l.append(AuthorUser, trimmed), true
}

// AppendAssistant records an assistant turn. The text is stored verbatim;
// rendering is the caller's concern.
func (l *MessageLog) AppendAssistant(text string) Message {
	return l.append(AuthorAssistant, text)
}

func (l *MessageLog) append(author Author, text string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
	return msg
}

// All returns a snapshot in insertion order.
func (l *MessageLog) All() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

// Clear empties the log. Used on session teardown only.
func (l *MessageLog) Clear() {
	l.mu.Lock()
	l.msgs = nil
	l.mu.Unlock()
}
