package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/ai/gemini"
	"github.com/spigell/resume-analyzer/internal/ai/local"
	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/jobpost"
	"github.com/spigell/resume-analyzer/internal/matching"
	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/secrets"
	"github.com/spigell/resume-analyzer/internal/skills"
	"github.com/spigell/resume-analyzer/internal/storage"
)

// services holds everything a command needs to run an analysis.
type services struct {
	dict     *skills.Dictionary
	analyzer *analysis.Analyzer
	loader   *storage.Loader
	fetcher  *jobpost.Fetcher
}

// resolveProvider decides which provider to use and returns the Gemini key when it is gemini.
func resolveProvider(cfg *AIConfig) (string, string, error) {
	if cfg.Provider == ProviderLocal {
		return ProviderLocal, "", nil
	}

	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		if cfg.Provider == ProviderGemini {
			return "", "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		return ProviderLocal, "", nil
	}

	return ProviderGemini, key, nil
}

func newGeminiClient(ctx context.Context, cfg *GeminiConfig, key string, log *zap.Logger) (*gemini.Client, error) {
	return gemini.NewClient(ctx, gemini.Options{
		APIKey:            key,
		Model:             cfg.Model,
		EmbeddingModel:    cfg.EmbeddingModel,
		MaxRetries:        cfg.MaxRetries,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, log)
}

func buildServices(ctx context.Context, config *Config, log *zap.Logger) (*services, error) {
	dict, err := config.Dictionary()
	if err != nil {
		return nil, fmt.Errorf("building skill dictionary: %w", err)
	}

	provider, key, err := resolveProvider(config.AI)
	if err != nil {
		return nil, err
	}

	svc := &services{
		dict:    dict,
		loader:  storage.NewLoader(config.Storage, log),
		fetcher: jobpost.NewFetcher(jobpost.DefaultTimeout),
	}

	var (
		embedder   ai.Embedder
		recognizer ai.EntityRecognizer
	)

	switch provider {
	case ProviderGemini:
		client, err := newGeminiClient(ctx, config.AI.Gemini, key, log)
		if err != nil {
			return nil, fmt.Errorf("building gemini client: %w", err)
		}
		embedder = client.Embedder()
		recognizer = gemini.NewRecognizer(client.Generator())
	default:
		if config.AI.Provider == ProviderAuto {
			log.Warn("gemini api key is not configured, using the local embedder",
				zap.String("hint", "set GEMINI_API_KEY or ai.gemini.api-key-file for semantic scoring"),
			)
		}
		embedder = local.NewEmbedder(local.DefaultDimensions)
	}

	log.Debug("ai provider selected", zap.String("provider", provider))

	parser := resume.NewParser(recognizer, log)
	scorer := matching.NewScorer(embedder, dict, log)
	svc.analyzer = analysis.NewAnalyzer(parser, scorer, dict, log)

	return svc, nil
}
