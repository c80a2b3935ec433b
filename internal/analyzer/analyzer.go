// Package analyzer asks a language model whether a résumé fits a role and
// holds the answer to a strict JSON contract.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/ai"
	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/roles"
	"github.com/spigell/recruiter/internal/sanitize"
	"github.com/spigell/recruiter/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

type ExperienceLevel string

const (
	Junior ExperienceLevel = "junior"
	Mid    ExperienceLevel = "mid"
	Senior ExperienceLevel = "senior"
)

// Verdict is the model's judgement of one résumé.
type Verdict struct {
	Selected        bool            `json:"selected"`
	Feedback        string          `json:"feedback"`
	MatchingSkills  []string        `json:"matching_skills,omitempty"`
	MissingSkills   []string        `json:"missing_skills,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
}

type Analyzer struct {
	completer ai.Completer
	logger    *zap.Logger
	maxLogLen int
}

func New(completer ai.Completer, maxLogLength int, logger *zap.Logger) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		completer: completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Evaluate judges resumeText against the role rubric.
//
// A completion failure returns a nil verdict. A reply that breaks the JSON
// contract returns a non-selected verdict whose feedback carries the parse
// error, together with an apperr.KindMalformedResponse error.
func (a *Analyzer) Evaluate(ctx context.Context, role roles.Role, resumeText string) (*Verdict, error) {
	rubric, ok := roles.Rubric(role)
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "evaluate", fmt.Sprintf("unknown role %q", role), nil)
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperr.New(apperr.KindValidation, "evaluate", "resume text is empty", nil)
	}

	prompt := BuildPrompt(rubric, resumeText)

	a.logger.Debug("resume analysis request",
		zap.String("role", role.String()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.completer.Complete(ctx, ai.UserPrompt(prompt))
	if err != nil {
		return nil, err
	}

	a.logger.Debug("resume analysis response",
		zap.String("role", role.String()),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	verdict, err := ParseVerdict(raw)
	if err != nil {
		a.logger.Warn("model response broke the verdict contract",
			zap.String("role", role.String()),
			zap.Error(err),
		)
		return &Verdict{
			Selected: false,
			Feedback: fmt.Sprintf("Error analyzing resume: %s", err),
		}, apperr.New(apperr.KindMalformedResponse, "evaluate", "", err)
	}

	a.logger.Info("resume analyzed",
		zap.String("role", role.String()),
		zap.Bool("selected", verdict.Selected),
		zap.String("experience_level", string(verdict.ExperienceLevel)),
	)

	return verdict, nil
}

func BuildPrompt(rubric, resumeText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Role Requirements:\n{{RUBRIC}}\nResume Text:\n{{RESUME}}\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{RUBRIC}}", rubric)
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", resumeText)
	return prompt
}

type contract struct {
	Selected *bool   `mapstructure:"selected"`
	Feedback *string `mapstructure:"feedback"`
}

type enrichment struct {
	MatchingSkills  []string `mapstructure:"matching_skills"`
	MissingSkills   []string `mapstructure:"missing_skills"`
	ExperienceLevel string   `mapstructure:"experience_level"`
}

// ParseVerdict decodes the bare JSON object the model was asked for.
// "selected" must be a JSON boolean and "feedback" a string; unknown keys are
// ignored and the optional enrichment fields are decoded on a best-effort basis.
func ParseVerdict(raw string) (*Verdict, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &data); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if data == nil {
		return nil, errors.New("invalid response format: expected a json object")
	}

	var required contract
	if err := mapstructure.Decode(data, &required); err != nil {
		return nil, fmt.Errorf("invalid response format: %w", err)
	}

	var missing []string
	if required.Selected == nil {
		missing = append(missing, "selected")
	}
	if required.Feedback == nil {
		missing = append(missing, "feedback")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("invalid response format: missing %s", strings.Join(missing, ", "))
	}

	verdict := &Verdict{
		Selected: *required.Selected,
		Feedback: sanitize.Clean(*required.Feedback),
	}

	var extra enrichment
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &extra,
	})
	if err == nil {
		// Partial results are fine; optional fields never fail the verdict.
		_ = decoder.Decode(data)
	}

	verdict.MatchingSkills = extra.MatchingSkills
	verdict.MissingSkills = extra.MissingSkills
	verdict.ExperienceLevel = normalizeLevel(extra.ExperienceLevel)

	return verdict, nil
}

func normalizeLevel(s string) ExperienceLevel {
	switch level := ExperienceLevel(strings.ToLower(strings.TrimSpace(s))); level {
	case Junior, Mid, Senior:
		return level
	default:
		return ""
	}
}
