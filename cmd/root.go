package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "recruiter"
	envPrefix = "RECRUITER"
)

type Config struct {
	CompanyName string           `mapstructure:"company-name"`
	Model       *ModelConfig     `mapstructure:"model"`
	Mail        *MailConfig      `mapstructure:"mail"`
	Zoom        *ZoomConfig      `mapstructure:"zoom"`
	Interview   *InterviewConfig `mapstructure:"interview"`
}

type ModelConfig struct {
	Provider     string `mapstructure:"provider"`
	Name         string `mapstructure:"name"`
	BaseURL      string `mapstructure:"base-url"`
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type MailConfig struct {
	Sender       string `mapstructure:"sender"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
}

type ZoomConfig struct {
	AccountID        string `mapstructure:"account-id"`
	ClientID         string `mapstructure:"client-id"`
	ClientSecret     string `mapstructure:"client-secret"`
	ClientSecretFile string `mapstructure:"client-secret-file"`
	TokenURL         string `mapstructure:"token-url"`
}

type InterviewConfig struct {
	Timezone      string `mapstructure:"timezone"`
	TimezoneLabel string `mapstructure:"timezone-label"`
}

var (
	// Used for flags.
	cfgFile string
	envFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "recruiter screens résumés with a language model, emails candidates and schedules interviews",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is recruiter.yaml in current directory)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every key so AutomaticEnv values reach Unmarshal.
func setDefaults(v *viper.Viper) {
	for key, value := range map[string]any{
		"company-name":             "",
		"model.provider":           "openrouter",
		"model.name":               "",
		"model.base-url":           "",
		"model.api-key":            "",
		"model.api-key-file":       "",
		"model.max-log-length":     200,
		"mail.sender":              "",
		"mail.password":            "",
		"mail.password-file":       "",
		"mail.host":                "smtp.gmail.com",
		"mail.port":                587,
		"zoom.account-id":          "",
		"zoom.client-id":           "",
		"zoom.client-secret":       "",
		"zoom.client-secret-file":  "",
		"zoom.token-url":           "",
		"interview.timezone":       "Asia/Kolkata",
		"interview.timezone-label": "IST",
	} {
		v.SetDefault(key, value)
	}
}

func initConfig() {
	// Only commands talking to the outside world need configuration.
	if runCmd.CalledAs() == "" && analyzeCmd.CalledAs() == "" {
		return
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading %s: %v", envFile, err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Model == nil {
		config.Model = &ModelConfig{}
	}
	if config.Mail == nil {
		config.Mail = &MailConfig{}
	}
	if config.Zoom == nil {
		config.Zoom = &ZoomConfig{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}

	return config, nil
}
