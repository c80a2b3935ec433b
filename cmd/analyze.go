package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/analyzer"
	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/extract"
	"github.com/spigell/recruiter/internal/logger"
	"github.com/spigell/recruiter/internal/roles"
	"github.com/spigell/recruiter/internal/secrets"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one résumé against a role and print the verdict as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		role, _ := cmd.Flags().GetString("role")
		resume, _ := cmd.Flags().GetString("resume")
		return analyze(cmd.Context(), role, resume)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("role", "r", "", fmt.Sprintf("role to evaluate against %v", roles.All()))
	analyzeCmd.Flags().String("resume", "", "path to the résumé PDF")
	analyzeCmd.MarkFlagRequired("role")
	analyzeCmd.MarkFlagRequired("resume")
}

func analyze(ctx context.Context, roleName, resumePath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	role, err := roles.Parse(roleName)
	if err != nil {
		return err
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "model api key",
		Value: config.Model.APIKey,
		File:  config.Model.APIKeyFile,
	})
	if err != nil {
		return fmt.Errorf("%w (set model.api-key, model.api-key-file or RECRUITER_MODEL_API_KEY)", err)
	}

	completer, err := newCompleter(ctx, config.Model, apiKey, log)
	if err != nil {
		return err
	}

	text, err := extract.File(ctx, resumePath)
	if err != nil {
		return err
	}

	verdict, err := analyzer.New(completer, config.Model.MaxLogLength, log.Named("analyzer")).Evaluate(ctx, role, text)
	if verdict != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(verdict); encErr != nil {
			return encErr
		}
	}
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedResponse) {
			log.Warn("model reply did not follow the contract, candidate not selected", zap.Error(err))
		}
		return err
	}
	return nil
}
