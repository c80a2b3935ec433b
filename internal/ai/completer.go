package ai

import (
	"context"

	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/sanitize"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of a conversation sent to a completion provider.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends a conversation to a language model and returns its reply.
// Implementations sanitize every turn before transmission and the reply
// before returning it. Failures are reported as apperr.KindCompletionFailed.
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
	Model() string
}

// UserPrompt builds a single-turn conversation.
func UserPrompt(prompt string) []Turn {
	return []Turn{{Role: RoleUser, Content: prompt}}
}

// SanitizeTurns returns a copy of turns with every string field cleaned.
func SanitizeTurns(turns []Turn) []Turn {
	safe := make([]Turn, 0, len(turns))
	for _, t := range turns {
		safe = append(safe, Turn{
			Role:    sanitize.Clean(t.Role),
			Content: sanitize.Clean(t.Content),
		})
	}
	return safe
}

// Failed wraps a provider error as a completion failure.
func Failed(op string, cause error) error {
	return apperr.New(apperr.KindCompletionFailed, op, "", cause)
}
