// Package gemini implements the ai capabilities on top of the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/logger"
)

const (
	// Provider is the value of the ai_provider log field.
	Provider = "gemini"

	DefaultModel          = "gemini-2.5-flash"
	DefaultEmbeddingModel = "gemini-embedding-001"

	defaultMaxRetries = 3
	baseRetryDelay    = 2 * time.Second
	maxRetryDelay     = 30 * time.Second
	maxLogLength      = 200
)

var sleep = time.Sleep

var retryAfterRe = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (g genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := g.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Options configures the Gemini client.
type Options struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxRetries     int
	// RequestsPerMinute limits outgoing calls. Zero disables limiting.
	RequestsPerMinute int
}

// Client owns the SDK client and hands out the capability implementations.
type Client struct {
	genai   *genai.Client
	opts    Options
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a client configured for the Gemini API backend.
func NewClient(ctx context.Context, opts Options, log *zap.Logger) (*Client, error) {
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if opts.Model = strings.TrimSpace(opts.Model); opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.EmbeddingModel = strings.TrimSpace(opts.EmbeddingModel); opts.EmbeddingModel == "" {
		opts.EmbeddingModel = DefaultEmbeddingModel
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}

	return &Client{
		genai:   client,
		opts:    opts,
		limiter: newLimiter(opts.RequestsPerMinute),
		logger:  logger.WithFields(log),
	}, nil
}

// Generator returns a chat-based text generator for the configured model.
func (c *Client) Generator() *Generator {
	return &Generator{
		chats:      genaiChats{chats: c.genai.Chats},
		model:      c.opts.Model,
		maxRetries: c.opts.MaxRetries,
		limiter:    c.limiter,
		logger:     logger.WithAI(c.logger, Provider, c.opts.Model),
	}
}

// Embedder returns an embedding provider for the configured embedding model.
func (c *Client) Embedder() *Embedder {
	return &Embedder{
		models:  c.genai.Models,
		model:   c.opts.EmbeddingModel,
		limiter: c.limiter,
		logger:  logger.WithAI(c.logger, Provider, c.opts.EmbeddingModel),
	}
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// Turn is one exchange of a conversation.
type Turn struct {
	User  string
	Model string
}

// Generator sends prompts through a fresh chat session per call and retries
// temporary API failures.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Model returns the model name used by the generator.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// GenerateContent sends message under the given system instruction and returns the text reply.
func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	return g.send(ctx, g.config(system), nil, message)
}

// GenerateJSON is GenerateContent with a JSON response constrained by schema.
func (g *Generator) GenerateJSON(ctx context.Context, system, message string, schema *genai.Schema) (string, error) {
	cfg := g.config(system)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = schema
	return g.send(ctx, cfg, nil, message)
}

// Continue replies to message with the previous turns as chat history.
func (g *Generator) Continue(ctx context.Context, system string, history []Turn, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)*2)
	for _, turn := range history {
		contents = append(contents,
			&genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: turn.User}}},
			&genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: turn.Model}}},
		)
	}
	return g.send(ctx, g.config(system), contents, message)
}

func (g *Generator) config(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if system = strings.TrimSpace(system); system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	return cfg
}

func (g *Generator) send(ctx context.Context, cfg *genai.GenerateContentConfig, history []*genai.Content, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	attempts := g.maxRetries
	if attempts <= 0 {
		attempts = 1
	}

	log := logger.WithFields(g.logger)
	log.Debug("gemini request",
		zap.Int("history", len(history)),
		zap.String("message_preview", logger.TruncateForLog(message, maxLogLength)),
	)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := wait(ctx, g.limiter); err != nil {
			return "", err
		}

		output, err := g.sendOnce(ctx, cfg, history, message)
		if err == nil {
			log.Debug("gemini response",
				zap.Int("attempt", attempt),
				zap.String("response_preview", logger.TruncateForLog(output, maxLogLength)),
			)
			return output, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}

		log.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := sleepContext(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("gemini request failed: %w", lastErr)
}

func (g *Generator) sendOnce(ctx context.Context, cfg *genai.GenerateContentConfig, history []*genai.Content, message string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, cfg, history)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", err
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay reports whether err is worth another attempt and how long to wait.
// Quota errors asking for a longer pause than maxRetryDelay are not retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return 0, false
		}
		apiErr = *ptr
	}

	backoff := baseRetryDelay * time.Duration(1<<(attempt-1))

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if m := retryAfterRe.FindStringSubmatch(apiErr.Message); m != nil {
			seconds, perr := strconv.ParseFloat(m[1], 64)
			if perr == nil {
				delay := time.Duration(seconds * float64(time.Second))
				if delay > maxRetryDelay {
					return 0, false
				}
				return delay, true
			}
		}
		return backoff, true
	case apiErr.Code >= http.StatusInternalServerError:
		return backoff, true
	default:
		return 0, false
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
