package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/ai"
	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/roles"
)

type stubCompleter struct {
	response  string
	err       error
	calls     int
	lastTurns []ai.Turn
}

func (s *stubCompleter) Complete(_ context.Context, turns []ai.Turn) (string, error) {
	s.calls++
	s.lastTurns = turns
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubCompleter) Model() string { return "stub-model" }

func TestEvaluateSelected(t *testing.T) {
	stub := &stubCompleter{response: `{"selected": true, "feedback": "Strong match", "matching_skills": ["Go", "SQL"], "missing_skills": [], "experience_level": "Senior", "confidence": 0.93}`}
	a := New(stub, 0, zap.NewNop())

	verdict, err := a.Evaluate(context.Background(), roles.BackendEngineer, "Go developer with 8 years of REST APIs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !verdict.Selected || verdict.Feedback != "Strong match" {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
	if len(verdict.MatchingSkills) != 2 || verdict.ExperienceLevel != Senior {
		t.Fatalf("expected enrichment fields, got %+v", verdict)
	}

	if len(stub.lastTurns) != 1 || stub.lastTurns[0].Role != ai.RoleUser {
		t.Fatalf("expected single user turn, got %+v", stub.lastTurns)
	}

	prompt := stub.lastTurns[0].Content
	rubric, _ := roles.Rubric(roles.BackendEngineer)
	for _, want := range []string{rubric, "Go developer with 8 years of REST APIs", `"selected": true/false`, "Match >=70% of skills", "Return ONLY JSON without markdown or backticks."} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q", want)
		}
	}
}

func TestEvaluateNeverSelectsOnMalformedResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "The candidate looks great, selected: true"},
		{name: "markdown fenced", response: "```json\n{\"selected\": true, \"feedback\": \"ok\"}\n```"},
		{name: "missing selected", response: `{"feedback": "good"}`},
		{name: "missing feedback", response: `{"selected": true}`},
		{name: "null selected", response: `{"selected": null, "feedback": "good"}`},
		{name: "string selected", response: `{"selected": "true", "feedback": "good"}`},
		{name: "numeric feedback", response: `{"selected": true, "feedback": 42}`},
		{name: "array", response: `[{"selected": true, "feedback": "good"}]`},
		{name: "json null", response: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := New(&stubCompleter{response: tt.response}, 0, zap.NewNop())

			verdict, err := a.Evaluate(context.Background(), roles.FrontendEngineer, "resume")
			if !errors.Is(err, apperr.ErrMalformedResponse) {
				t.Fatalf("expected malformed response, got %v", err)
			}
			if verdict == nil || verdict.Selected {
				t.Fatalf("expected non-selected verdict, got %+v", verdict)
			}
			if !strings.HasPrefix(verdict.Feedback, "Error analyzing resume: ") {
				t.Fatalf("expected parse error in feedback, got %q", verdict.Feedback)
			}
		})
	}
}

func TestEvaluateIgnoresBadOptionalFields(t *testing.T) {
	stub := &stubCompleter{response: `{"selected": false, "feedback": "Needs React", "matching_skills": "html", "experience_level": "principal"}`}
	a := New(stub, 0, zap.NewNop())

	verdict, err := a.Evaluate(context.Background(), roles.FrontendEngineer, "resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Selected || verdict.Feedback != "Needs React" {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
	if verdict.ExperienceLevel != "" {
		t.Fatalf("unknown experience level should be dropped, got %q", verdict.ExperienceLevel)
	}
}

func TestEvaluateCompletionFailure(t *testing.T) {
	stub := &stubCompleter{err: ai.Failed("chat", errors.New("timeout"))}
	a := New(stub, 0, zap.NewNop())

	verdict, err := a.Evaluate(context.Background(), roles.AIMLEngineer, "resume")
	if !errors.Is(err, apperr.ErrCompletionFailed) {
		t.Fatalf("expected completion failed, got %v", err)
	}
	if verdict != nil {
		t.Fatalf("expected nil verdict, got %+v", verdict)
	}
	if stub.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", stub.calls)
	}
}

func TestEvaluateValidatesInput(t *testing.T) {
	stub := &stubCompleter{response: `{"selected": true, "feedback": "x"}`}
	a := New(stub, 0, zap.NewNop())

	if _, err := a.Evaluate(context.Background(), roles.BackendEngineer, "   "); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for empty resume, got %v", err)
	}
	if _, err := a.Evaluate(context.Background(), roles.Role("designer"), "resume"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("model must not be called on invalid input, got %d calls", stub.calls)
	}
}

func TestParseVerdictSanitizesFeedback(t *testing.T) {
	verdict, err := ParseVerdict(`{"selected": true, "feedback": "Excellent 🚀 match"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Feedback != "Excellent  match" {
		t.Fatalf("unexpected feedback: %q", verdict.Feedback)
	}
}
