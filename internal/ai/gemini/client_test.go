package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/recruiter/internal/ai"
	"github.com/spigell/recruiter/internal/apperr"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeModels struct {
	calls []generateCall
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: config})
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeneratorMapsConversation(t *testing.T) {
	models := &fakeModels{resp: textResponse("first 🎉", "  ", "second")}
	g := &Generator{models: models, model: "gemini-pro", logger: zap.NewNop()}

	out, err := g.Complete(context.Background(), []ai.Turn{
		{Role: ai.RoleSystem, Content: "system ✓"},
		{Role: ai.RoleUser, Content: "question"},
		{Role: ai.RoleAssistant, Content: "answer"},
		{Role: ai.RoleUser, Content: "follow up"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out != "first \nsecond" {
		t.Fatalf("unexpected output: %q", out)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != "gemini-pro" {
		t.Fatalf("unexpected model: %s", call.model)
	}
	if call.config == nil || call.config.SystemInstruction == nil {
		t.Fatalf("expected system instruction to be set")
	}
	if got := call.config.SystemInstruction.Parts[0].Text; got != "system " {
		t.Fatalf("unexpected system instruction: %q", got)
	}
	if len(call.contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(call.contents))
	}
	if call.contents[1].Role != roleModel || call.contents[2].Role != roleUser {
		t.Fatalf("unexpected roles: %s, %s", call.contents[1].Role, call.contents[2].Role)
	}
}

func TestGeneratorDoesNotRetry(t *testing.T) {
	models := &fakeModels{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}}
	g := &Generator{models: models, model: "gemini-pro", logger: zap.NewNop()}

	_, err := g.Complete(context.Background(), ai.UserPrompt("msg"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, apperr.ErrCompletionFailed) {
		t.Fatalf("expected completion failed, got %v", err)
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	models := &fakeModels{resp: textResponse("   ")}
	g := &Generator{models: models, model: "gemini-pro", logger: zap.NewNop()}

	if _, err := g.Complete(context.Background(), ai.UserPrompt("msg")); !errors.Is(err, apperr.ErrCompletionFailed) {
		t.Fatalf("expected completion failed, got %v", err)
	}
}
