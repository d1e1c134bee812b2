package llm

import (
	"context"
	"errors"
)

// Message is one turn of a chat completion conversation.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Client abstracts chat-completion LLM providers.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ErrEmptyPrompt is returned when a completion is requested with no messages.
var ErrEmptyPrompt = errors.New("llm: empty prompt")
