package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const semanticSimilarityTask = "SEMANTIC_SIMILARITY"

type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder produces document embeddings tuned for semantic similarity.
type Embedder struct {
	models  contentEmbedder
	model   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e == nil || e.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text must not be empty")
	}

	if err := wait(ctx, e.limiter); err != nil {
		return nil, err
	}

	resp, err := e.models.EmbedContent(ctx, e.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: semanticSimilarityTask,
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini api returned no embeddings")
	}

	values := resp.Embeddings[0].Values
	if e.logger != nil {
		e.logger.Debug("text embedded", zap.Int("text_length", len(text)), zap.Int("dimensions", len(values)))
	}

	return values, nil
}
