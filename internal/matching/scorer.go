// Package matching blends semantic similarity with weighted skill overlap into a 0-100 match score.
package matching

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/skills"
)

const (
	semanticWeight = 0.7
	skillWeight    = 0.3

	minScore = 0.0
	maxScore = 100.0
)

// Match is the outcome of scoring a resume against a job description.
type Match struct {
	// Score is the blended score rounded to two decimals, in [0,100].
	Score float64 `json:"score"`
	// Semantic is the cosine similarity scaled by 100, in [-100,100].
	Semantic float64 `json:"semantic"`
	// Skills is the weighted skill overlap, in [0,100].
	Skills       float64  `json:"skills"`
	ResumeSkills []string `json:"resume_skills"`
	JobSkills    []string `json:"job_skills"`
}

// Scorer computes match scores. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	embedder ai.Embedder
	dict     *skills.Dictionary
	logger   *zap.Logger
}

// NewScorer creates a scorer. A nil dictionary means skills.Default().
func NewScorer(embedder ai.Embedder, dict *skills.Dictionary, logger *zap.Logger) *Scorer {
	if dict == nil {
		dict = skills.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{embedder: embedder, dict: dict, logger: logger}
}

// Score returns the match of resumeText against jobText. Only an embedding
// provider failure produces an error.
func (s *Scorer) Score(ctx context.Context, resumeText, jobText string) (*Match, error) {
	semantic, err := s.semantic(ctx, resumeText, jobText)
	if err != nil {
		return nil, err
	}

	resumeSkills := s.dict.Extract(resumeText)
	jobSkills := s.dict.Extract(jobText)
	skillScore := s.dict.OverlapScore(resumeSkills, jobSkills)

	match := &Match{
		Score:        Blend(semantic, skillScore),
		Semantic:     semantic,
		Skills:       skillScore,
		ResumeSkills: resumeSkills.Sorted(),
		JobSkills:    jobSkills.Sorted(),
	}

	s.logger.Debug("match scored",
		zap.Float64("score", match.Score),
		zap.Float64("semantic", match.Semantic),
		zap.Float64("skills", match.Skills),
		zap.Int("resume_skills", len(match.ResumeSkills)),
		zap.Int("job_skills", len(match.JobSkills)),
	)

	return match, nil
}

// Blend combines the semantic and skill sub-scores: 70% semantic, 30% skills,
// rounded to two decimals and kept within [0,100]. A negative semantic score
// lowers the result without being clamped first.
func Blend(semantic, skill float64) float64 {
	score := Round2(semanticWeight*semantic + skillWeight*skill)
	return math.Max(minScore, math.Min(maxScore, score))
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Scorer) semantic(ctx context.Context, resumeText, jobText string) (float64, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobText) == "" {
		s.logger.Debug("blank text, semantic similarity set to zero")
		return 0, nil
	}
	if s.embedder == nil {
		return 0, fmt.Errorf("embedding provider is not configured")
	}

	resumeVec, err := s.embedder.Embed(ctx, resumeText)
	if err != nil {
		return 0, fmt.Errorf("embed resume: %w", err)
	}

	jobVec, err := s.embedder.Embed(ctx, jobText)
	if err != nil {
		return 0, fmt.Errorf("embed job description: %w", err)
	}

	cos, err := CosineSimilarity(resumeVec, jobVec)
	if err != nil {
		return 0, fmt.Errorf("compare embeddings: %w", err)
	}

	return cos * 100, nil
}
