package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/recruiter/internal/ai"
	"github.com/spigell/recruiter/internal/sanitize"
)

const (
	DefaultModel = "gemini-2.5-pro"

	roleUser  = "user"
	roleModel = "model"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client to implement ai.Completer.
type Generator struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(sanitize.Clean(apiKey))
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{models: client.Models, model: model, logger: logger}, nil
}

// Complete sends the sanitized conversation to Gemini. System turns become the
// system instruction and assistant turns are sent with the model role.
func (g *Generator) Complete(ctx context.Context, turns []ai.Turn) (string, error) {
	if g == nil || g.models == nil {
		return "", ai.Failed("gemini generate content", errors.New("gemini generator is not initialized"))
	}

	contents, config := toContents(ai.SanitizeTurns(turns))
	if len(contents) == 0 {
		return "", ai.Failed("gemini generate content", errors.New("conversation must not be empty"))
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", ai.Failed("gemini generate content", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := sanitize.Clean(strings.TrimSpace(builder.String()))
	if output == "" {
		return "", ai.Failed("gemini generate content", errors.New("gemini api returned empty response"))
	}

	g.logger.Debug("gemini generate content response", zap.Int("response_length", len(output)))

	return output, nil
}

func toContents(turns []ai.Turn) ([]*genai.Content, *genai.GenerateContentConfig) {
	var (
		contents []*genai.Content
		system   []*genai.Part
	)

	for _, t := range turns {
		switch t.Role {
		case ai.RoleSystem:
			system = append(system, &genai.Part{Text: t.Content})
		case ai.RoleAssistant:
			contents = append(contents, &genai.Content{Role: roleModel, Parts: []*genai.Part{{Text: t.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: roleUser, Parts: []*genai.Part{{Text: t.Content}}})
		}
	}

	if len(system) == 0 {
		return contents, nil
	}

	return contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: system},
	}
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

var _ ai.Completer = (*Generator)(nil)
