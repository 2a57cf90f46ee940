package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind distinguishes regular replies from the transient typing
// placeholder and from failed exchanges.
type Kind string

const (
	KindNormal Kind = "normal"
	KindTyping Kind = "typing"
	KindError  Kind = "error"
)

// ErrorCause tells an error message caused by a rejected request apart
// from one caused by an unreachable DM.
type ErrorCause string

const (
	CauseApplication ErrorCause = "application"
	CauseNetwork     ErrorCause = "network"
)

const typingIDPrefix = "typing-"

type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Kind      Kind       `json:"kind"`
	Cause     ErrorCause `json:"cause,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewUserMessage(content string) Message {
	return newMessage(uuid.NewString(), RoleUser, KindNormal, content)
}

func NewAssistantMessage(content string) Message {
	return newMessage(uuid.NewString(), RoleAssistant, KindNormal, content)
}

func NewErrorMessage(cause ErrorCause, content string) Message {
	m := newMessage(uuid.NewString(), RoleAssistant, KindError, content)
	m.Cause = cause
	return m
}

// NewTypingPlaceholder marks an outstanding request. It is removed, never
// edited, once the request settles.
func NewTypingPlaceholder() Message {
	return newMessage(typingIDPrefix+uuid.NewString(), RoleAssistant, KindTyping, "")
}

func newMessage(id string, role Role, kind Kind, content string) Message {
	return Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}

func (m Message) IsTyping() bool {
	return m.Kind == KindTyping
}

// ErrorLabel is the prefix presentations put in front of error messages.
func (m Message) ErrorLabel() string {
	if m.Cause == CauseNetwork {
		return "[Network error]"
	}
	return "[Error]"
}
