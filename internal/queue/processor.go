// Package queue serves resume analyses requested over AMQP.
package queue

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/document"
	"github.com/spigell/resume-analyzer/internal/logger"
)

//go:embed request.schema.json
var requestSchema string

var requestSchemaLoader = gojsonschema.NewStringLoader(requestSchema)

// Status values of a Response.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Request asks for one resume to be analysed. Exactly one of ResumeText and
// ResumeLocation is normally set; text wins when both are.
type Request struct {
	RequestID      string `json:"request_id,omitempty"`
	ResumeText     string `json:"resume_text,omitempty"`
	ResumeLocation string `json:"resume_location,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty"`
}

// Response is published for every consumed message, including invalid ones.
type Response struct {
	RequestID string           `json:"request_id"`
	Status    string           `json:"status"`
	Error     string           `json:"error,omitempty"`
	Result    *analysis.Result `json:"result,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

type resultAnalyzer interface {
	Analyze(ctx context.Context, in analysis.Input) (*analysis.Result, error)
}

type documentLoader interface {
	Load(ctx context.Context, location string) ([]byte, error)
}

type jobFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Processor turns request bodies into responses. It does not talk to the broker.
type Processor struct {
	analyzer resultAnalyzer
	loader   documentLoader
	fetcher  jobFetcher
	logger   *zap.Logger
	now      func() time.Time
}

func NewProcessor(analyzer resultAnalyzer, loader documentLoader, fetcher jobFetcher, log *zap.Logger) *Processor {
	return &Processor{
		analyzer: analyzer,
		loader:   loader,
		fetcher:  fetcher,
		logger:   logger.WithFields(log),
		now:      time.Now,
	}
}

// ValidateRequest checks body against the request schema.
func ValidateRequest(body []byte) error {
	result, err := gojsonschema.Validate(requestSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return fmt.Errorf("request does not match schema: %s", strings.Join(problems, "; "))
}

// Process validates and runs one request. Failures are reported in the response.
func (p *Processor) Process(ctx context.Context, body []byte) Response {
	var req Request
	if err := ValidateRequest(body); err != nil {
		// best effort so the caller can still correlate the failure
		_ = json.Unmarshal(body, &req)
		return p.failed(req.RequestID, err)
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return p.failed(req.RequestID, fmt.Errorf("decode request: %w", err))
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	log := logger.WithRequest(p.logger, req.RequestID)

	in, err := p.input(ctx, req, log)
	if err != nil {
		return p.failed(req.RequestID, err)
	}

	res, err := p.analyzer.Analyze(ctx, in)
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		return p.failed(req.RequestID, err)
	}

	return Response{RequestID: req.RequestID, Status: StatusCompleted, Result: res, Timestamp: p.now().UTC()}
}

func (p *Processor) input(ctx context.Context, req Request, log *zap.Logger) (analysis.Input, error) {
	in := analysis.Input{
		Source:         req.ResumeLocation,
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
	}

	if in.ResumeText == "" && req.ResumeLocation != "" {
		if p.loader == nil {
			return in, fmt.Errorf("resume locations are not supported by this worker")
		}
		data, err := p.loader.Load(ctx, req.ResumeLocation)
		if err != nil {
			return in, fmt.Errorf("load resume: %w", err)
		}
		in.ResumeText = document.ExtractOrEmpty(req.ResumeLocation, data, log)
	}

	if in.JobDescription == "" && req.JobURL != "" {
		if p.fetcher == nil {
			return in, fmt.Errorf("job urls are not supported by this worker")
		}
		text, err := p.fetcher.Fetch(ctx, req.JobURL)
		if err != nil {
			return in, fmt.Errorf("fetch job description: %w", err)
		}
		in.JobDescription = text
	}

	return in, nil
}

func (p *Processor) failed(id string, err error) Response {
	return Response{RequestID: id, Status: StatusFailed, Error: err.Error(), Timestamp: p.now().UTC()}
}
