// Package analysis runs the full resume pipeline: parse, score, find gaps, suggest.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/matching"
	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/skills"
	"github.com/spigell/resume-analyzer/internal/suggestions"
)

// ErrEmptyResume means no text could be obtained from the resume.
var ErrEmptyResume = errors.New("could not extract text from the resume, try a different format")

// PreviewLength is how many runes of the resume text a Result keeps.
const PreviewLength = 5000

// Input is a single resume to compare against a job description.
type Input struct {
	// Source names where the resume came from, for logs and reports.
	Source         string
	ResumeText     string
	JobDescription string
}

// Result is everything an analysis produced.
type Result struct {
	ID          string                   `json:"id"`
	Source      string                   `json:"source,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	Record      *resume.Record           `json:"resume"`
	Match       *matching.Match          `json:"match"`
	JobSkills   []string                 `json:"job_skills"`
	Gaps        skills.Gaps              `json:"gaps"`
	Suggestions []suggestions.Suggestion `json:"suggestions"`
	Preview     string                   `json:"raw_text_preview"`
}

// Score is the blended match score.
func (r *Result) Score() float64 {
	if r == nil || r.Match == nil {
		return 0
	}
	return r.Match.Score
}

// Analyzer is stateless between calls and safe for concurrent use.
type Analyzer struct {
	parser *resume.Parser
	scorer *matching.Scorer
	dict   *skills.Dictionary
	logger *zap.Logger
	now    func() time.Time
}

func NewAnalyzer(parser *resume.Parser, scorer *matching.Scorer, dict *skills.Dictionary, log *zap.Logger) *Analyzer {
	if dict == nil {
		dict = skills.Default()
	}
	return &Analyzer{
		parser: parser,
		scorer: scorer,
		dict:   dict,
		logger: logger.WithFields(log),
		now:    time.Now,
	}
}

// Analyze runs one analysis. Blank resume text fails with ErrEmptyResume before any
// work is done; an embedding failure is the only other error.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.ResumeText) == "" {
		return nil, ErrEmptyResume
	}

	id := uuid.NewString()
	log := logger.WithAnalysis(a.logger, id, in.Source)
	log.Info("analysis started",
		zap.Int("resume_length", len(in.ResumeText)),
		zap.Int("job_length", len(in.JobDescription)),
	)

	record := a.parser.Parse(ctx, in.ResumeText)

	match, err := a.scorer.Score(ctx, in.ResumeText, in.JobDescription)
	if err != nil {
		log.Error("scoring failed", zap.Error(err))
		return nil, fmt.Errorf("score resume: %w", err)
	}

	jobSkills := a.dict.Extract(in.JobDescription)
	result := &Result{
		ID:          id,
		Source:      in.Source,
		CreatedAt:   a.now().UTC(),
		Record:      record,
		Match:       match,
		JobSkills:   jobSkills.Sorted(),
		Gaps:        a.dict.Gaps(record.SkillSet(), jobSkills),
		Suggestions: suggestions.Generate(record, match.Score, in.JobDescription, a.dict),
		Preview:     preview(in.ResumeText),
	}

	log.Info("analysis finished",
		zap.Float64("score", result.Score()),
		zap.Int("gaps", len(result.Gaps)),
		zap.Int("suggestions", len(result.Suggestions)),
	)

	return result, nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "..."
}
