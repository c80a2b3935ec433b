// Package openrouter implements ai.Completer on top of the OpenRouter
// chat-completions endpoint.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/ai"
	"github.com/spigell/recruiter/internal/sanitize"
	"github.com/spigell/recruiter/internal/utils"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "nousresearch/hermes-4-405b"

	contentType = "application/json"
	referer     = "http://localhost"
	title       = "AI Recruitment System"

	defaultMaxLogLength = 200
)

type Client struct {
	apiKey    string
	model     string
	logger    *zap.Logger
	maxLogLen int

	HTTPClient *http.Client
	BaseURL    string
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []ai.Turn `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message ai.Turn `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// New creates a client. An empty model falls back to DefaultModel.
func New(apiKey, model string, maxLogLength int, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(sanitize.Clean(apiKey))
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
		maxLogLen:  maxLogLength,
		HTTPClient: &http.Client{},
		BaseURL:    DefaultBaseURL,
	}, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// Complete posts the sanitized conversation and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, turns []ai.Turn) (string, error) {
	if len(turns) == 0 {
		return "", ai.Failed("openrouter chat", errors.New("conversation must not be empty"))
	}

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: ai.SanitizeTurns(turns),
	})
	if err != nil {
		return "", ai.Failed("openrouter chat", fmt.Errorf("marshal request: %w", err))
	}

	c.logger.Debug("openrouter chat request",
		zap.Int("turns", len(turns)),
		zap.Int("payload_length", len(payload)),
		zap.String("last_turn_preview", utils.TruncateForLog(turns[len(turns)-1].Content, c.maxLogLen)),
	)

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", ai.Failed("openrouter chat", err)
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", ai.Failed("openrouter chat", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ai.Failed("openrouter chat", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ai.Failed("openrouter chat", fmt.Errorf("bad status: %s: %s", resp.Status, utils.TruncateForLog(string(body), c.maxLogLen)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", ai.Failed("openrouter chat", fmt.Errorf("parse response: %w", err))
	}
	if parsed.Error != nil {
		return "", ai.Failed("openrouter chat", fmt.Errorf("provider error: %s", parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", ai.Failed("openrouter chat", errors.New("response has no choices"))
	}

	content := sanitize.Clean(parsed.Choices[0].Message.Content)
	if strings.TrimSpace(content) == "" {
		return "", ai.Failed("openrouter chat", errors.New("response has empty content"))
	}

	c.logger.Debug("openrouter chat response",
		zap.Int("response_length", utf8.RuneCountInString(content)),
		zap.String("response_preview", utils.TruncateForLog(content, c.maxLogLen)),
	)

	return content, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("HTTP-Referer", referer)
	req.Header.Set("X-Title", title)
}

var _ ai.Completer = (*Client)(nil)
