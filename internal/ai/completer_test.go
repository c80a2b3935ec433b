package ai

import (
	"errors"
	"testing"

	"github.com/spigell/recruiter/internal/apperr"
)

func TestSanitizeTurns(t *testing.T) {
	turns := []Turn{
		{Role: "user✓", Content: "Résumé 🎯 text"},
		{Role: RoleAssistant, Content: "ok"},
	}

	safe := SanitizeTurns(turns)
	if len(safe) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(safe))
	}
	if safe[0].Role != "user" || safe[0].Content != "Rsum  text" {
		t.Fatalf("unexpected sanitized turn: %+v", safe[0])
	}
	if turns[0].Content != "Résumé 🎯 text" {
		t.Fatalf("input turns must not be modified")
	}
}

func TestFailed(t *testing.T) {
	err := Failed("openrouter chat", errors.New("bad status: 500"))
	if !errors.Is(err, apperr.ErrCompletionFailed) {
		t.Fatalf("expected completion failed kind, got %v", err)
	}
}
