package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/ai/openrouter"
	"github.com/spigell/recruiter/internal/scheduler"
	"github.com/spigell/recruiter/internal/workflow"
)

func emptyConfig() *Config {
	return &Config{Model: &ModelConfig{}, Mail: &MailConfig{}, Zoom: &ZoomConfig{}, Interview: &InterviewConfig{}}
}

func TestInitialSettingsLeavesUnsetSecretsEmpty(t *testing.T) {
	config := emptyConfig()
	config.CompanyName = " Acme "
	config.Mail.Sender = "hr@company.io"

	passwordFile := filepath.Join(t.TempDir(), "mail-password")
	if err := os.WriteFile(passwordFile, []byte("app-pass\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	config.Mail.PasswordFile = passwordFile

	settings, err := initialSettings(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settings.MailPassword != "app-pass" || settings.CompanyName != "Acme" {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	missing := settings.Missing()
	if len(missing) != 1 || missing[0] != workflow.FieldModelKey {
		t.Fatalf("expected only the model key missing, got %v", missing)
	}
}

func TestInitialSettingsBrokenSecretFile(t *testing.T) {
	config := emptyConfig()
	config.Model.APIKeyFile = filepath.Join(t.TempDir(), "missing")

	if _, err := initialSettings(config); err == nil {
		t.Fatalf("expected error for unreadable key file")
	}
}

func TestNewCompleter(t *testing.T) {
	cfg := &ModelConfig{BaseURL: "http://localhost:9999/api/v1/"}

	c, err := newCompleter(context.Background(), cfg, "sk-test", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client, ok := c.(*openrouter.Client)
	if !ok {
		t.Fatalf("expected openrouter client by default, got %T", c)
	}
	if client.BaseURL != "http://localhost:9999/api/v1" || client.Model() != openrouter.DefaultModel {
		t.Fatalf("unexpected client: %s %s", client.BaseURL, client.Model())
	}

	if _, err := newCompleter(context.Background(), &ModelConfig{Provider: "llama"}, "k", zap.NewNop()); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}

func TestServiceBuilderRequiresMailCredentials(t *testing.T) {
	zone, err := scheduler.LoadZone("", "")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}

	build := serviceBuilder(emptyConfig(), zone, zap.NewNop())
	if _, err := build(context.Background(), workflow.Settings{ModelKey: "sk-test"}); err == nil {
		t.Fatalf("expected mail transport error")
	}

	services, err := build(context.Background(), workflow.Settings{ModelKey: "sk-test", MailSender: "hr@company.io", MailPassword: "p", CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if services.Analyzer == nil || services.Notifier == nil || services.Scheduler == nil {
		t.Fatalf("expected all services, got %+v", services)
	}
}

func TestDefaultsReachUnmarshal(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("mail.sender", "hr@company.io")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Mail == nil || config.Mail.Port != 587 || config.Mail.Sender != "hr@company.io" {
		t.Fatalf("unexpected mail config: %+v", config.Mail)
	}
	if config.Interview == nil || config.Interview.Timezone != "Asia/Kolkata" {
		t.Fatalf("unexpected interview config: %+v", config.Interview)
	}
}
