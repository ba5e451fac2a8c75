package cmd

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/spigell/resume-analyzer/internal/filtering"
	"github.com/spigell/resume-analyzer/internal/queue"
	"github.com/spigell/resume-analyzer/internal/report"
	"github.com/spigell/resume-analyzer/internal/skills"
	"github.com/spigell/resume-analyzer/internal/storage"
)

const (
	ProviderAuto   = ""
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

var envBindings = map[string]string{
	"ai.gemini.api-key":      "GEMINI_API_KEY",
	"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	"queue.url":              "AMQP_URL",
	"storage.endpoint":       "S3_ENDPOINT",
	"storage.access-key":     "AWS_ACCESS_KEY_ID",
	"storage.secret-key":     "AWS_SECRET_ACCESS_KEY",
	"storage.region":         "AWS_REGION",
}

type Config struct {
	AI        *AIConfig         `mapstructure:"ai"`
	Skills    *SkillsConfig     `mapstructure:"skills"`
	Storage   storage.S3Config  `mapstructure:"storage"`
	Queue     queue.Config      `mapstructure:"queue"`
	Report    *ReportConfig     `mapstructure:"report"`
	Shortlist filtering.Options `mapstructure:"shortlist"`
}

type AIConfig struct {
	// Provider is gemini, local or empty. Empty picks gemini when a key is configured.
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini local"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey            string `mapstructure:"api-key" json:"-"`
	APIKeyFile        string `mapstructure:"api-key-file"`
	Model             string `mapstructure:"model"`
	EmbeddingModel    string `mapstructure:"embedding-model"`
	MaxRetries        int    `mapstructure:"max-retries" validate:"gte=0"`
	RequestsPerMinute int    `mapstructure:"requests-per-minute" validate:"gte=0"`
}

type SkillsConfig struct {
	// Weights overrides or extends the built-in dictionary.
	Weights map[string]any `mapstructure:"weights"`
}

type ReportConfig struct {
	Format string `mapstructure:"format"`
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

// decodeConfig unmarshals and validates the configuration, filling absent sections.
func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Skills == nil {
		config.Skills = &SkillsConfig{}
	}
	if config.Report == nil {
		config.Report = &ReportConfig{}
	}
	if config.Queue.Queue == "" {
		config.Queue.Queue = queue.DefaultQueue
	}
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if _, err := config.Format(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &config, nil
}

// Dictionary returns the built-in dictionary with the configured weights applied.
func (c *Config) Dictionary() (*skills.Dictionary, error) {
	weights, err := skills.DecodeWeights(c.Skills.Weights)
	if err != nil {
		return nil, err
	}
	return skills.Default().With(weights)
}

// Format returns the configured report format, text by default.
func (c *Config) Format() (report.Format, error) {
	return report.ParseFormat(c.Report.Format)
}
