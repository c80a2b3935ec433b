// Package videoconf turns a scheduling instruction into meeting details.
package videoconf

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/spigell/recruiter/internal/ai"
	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/logger"
	"github.com/spigell/recruiter/internal/sanitize"
)

// Agent asks a language model to produce meeting details after confirming the
// videoconference account is reachable.
type Agent struct {
	completer    ai.Completer
	tokens       oauth2.TokenSource
	maxLogLength int
	logger       *zap.Logger
}

// NewAgent creates an agent. A nil tokens source means no videoconference
// account is configured and Schedule refuses to run.
func NewAgent(completer ai.Completer, tokens oauth2.TokenSource, maxLogLength int, log *zap.Logger) *Agent {
	return &Agent{
		completer:    completer,
		tokens:       tokens,
		maxLogLength: maxLogLength,
		logger:       logger.WithCommonFields(log, "videoconf", completer.Model()),
	}
}

// Schedule returns the model's reply to the instruction as meeting details.
func (a *Agent) Schedule(ctx context.Context, instruction string) (string, error) {
	if a.tokens == nil {
		return "", apperr.New(apperr.KindConfigurationIncomplete, "videoconf", "videoconference account is not configured", nil)
	}
	tok, err := a.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("obtain videoconference token: %w", err)
	}
	if !tok.Valid() {
		return "", errors.New("videoconference token is not valid")
	}

	a.logger.Debug("requesting meeting details", logger.Preview(logger.FieldPrompt, instruction, a.maxLogLength)...)

	details, err := a.completer.Complete(ctx, ai.UserPrompt(instruction))
	if err != nil {
		return "", err
	}

	details = sanitize.Clean(details)
	a.logger.Debug("meeting details received", logger.Preview(logger.FieldReply, details, a.maxLogLength)...)
	return details, nil
}
