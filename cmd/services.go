package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/spigell/recruiter/internal/ai"
	"github.com/spigell/recruiter/internal/ai/gemini"
	"github.com/spigell/recruiter/internal/ai/openrouter"
	"github.com/spigell/recruiter/internal/analyzer"
	"github.com/spigell/recruiter/internal/logger"
	"github.com/spigell/recruiter/internal/notify"
	"github.com/spigell/recruiter/internal/scheduler"
	"github.com/spigell/recruiter/internal/secrets"
	"github.com/spigell/recruiter/internal/videoconf"
	"github.com/spigell/recruiter/internal/workflow"
)

const (
	providerOpenRouter = "openrouter"
	providerGemini     = "gemini"
)

// initialSettings prefills the configuration step from the loaded config.
// Unset secrets stay empty for the operator to fill in.
func initialSettings(config *Config) (workflow.Settings, error) {
	values, err := secrets.LoadAll(
		secrets.Source{Name: "model api key", Value: config.Model.APIKey, File: config.Model.APIKeyFile, Optional: true},
		secrets.Source{Name: "mail password", Value: config.Mail.Password, File: config.Mail.PasswordFile, Optional: true},
		secrets.Source{Name: "zoom client secret", Value: config.Zoom.ClientSecret, File: config.Zoom.ClientSecretFile, Optional: true},
	)
	if err != nil {
		return workflow.Settings{}, err
	}

	return workflow.Settings{
		ModelKey:         values[0],
		MailSender:       strings.TrimSpace(config.Mail.Sender),
		MailPassword:     values[1],
		CompanyName:      strings.TrimSpace(config.CompanyName),
		ZoomAccountID:    strings.TrimSpace(config.Zoom.AccountID),
		ZoomClientID:     strings.TrimSpace(config.Zoom.ClientID),
		ZoomClientSecret: values[2],
	}, nil
}

func newCompleter(ctx context.Context, cfg *ModelConfig, apiKey string, log *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = providerOpenRouter
	}

	switch provider {
	case providerOpenRouter:
		client, err := openrouter.New(apiKey, cfg.Name, cfg.MaxLogLength, logger.WithCommonFields(log, provider, cfg.Name))
		if err != nil {
			return nil, err
		}
		if base := strings.TrimSpace(cfg.BaseURL); base != "" {
			client.BaseURL = strings.TrimRight(base, "/")
		}
		return client, nil
	case providerGemini:
		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Name, logger.WithCommonFields(log, provider, cfg.Name))
		if err != nil {
			return nil, err
		}
		return generator, nil
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.Provider)
	}
}

// serviceBuilder wires the collaborators once the operator completes the
// configuration step.
func serviceBuilder(config *Config, zone scheduler.Zone, log *zap.Logger) workflow.ServiceBuilder {
	return func(ctx context.Context, settings workflow.Settings) (*workflow.Services, error) {
		completer, err := newCompleter(ctx, config.Model, settings.ModelKey, log)
		if err != nil {
			return nil, fmt.Errorf("building completion client: %w", err)
		}

		transport, err := notify.NewSMTP(notify.SMTPConfig{
			Host:     config.Mail.Host,
			Port:     config.Mail.Port,
			Username: settings.MailSender,
			Password: settings.MailPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("building mail transport: %w", err)
		}
		notifier := notify.New(completer, transport, settings.MailSender, log.Named("notify"))

		var tokens oauth2.TokenSource
		if settings.VideoconfReady() {
			tokens, err = videoconf.NewTokenSource(ctx, videoconf.Credentials{
				AccountID:    settings.ZoomAccountID,
				ClientID:     settings.ZoomClientID,
				ClientSecret: settings.ZoomClientSecret,
				TokenURL:     config.Zoom.TokenURL,
			})
			if err != nil {
				return nil, err
			}
		} else {
			log.Warn("videoconference credentials are not set, interview scheduling is unavailable")
		}
		agent := videoconf.NewAgent(completer, tokens, config.Model.MaxLogLength, log.Named("videoconf"))

		return &workflow.Services{
			Analyzer:  analyzer.New(completer, config.Model.MaxLogLength, log.Named("analyzer")),
			Notifier:  notifier,
			Scheduler: scheduler.New(agent, notifier, zone, log.Named("scheduler")),
		}, nil
	}
}
