package resume

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
)

// Parser turns raw resume text into a Record.
type Parser struct {
	recognizer ai.EntityRecognizer
	logger     *zap.Logger
}

// NewParser creates a parser. A nil recognizer falls back to HeuristicRecognizer.
func NewParser(recognizer ai.EntityRecognizer, logger *zap.Logger) *Parser {
	if recognizer == nil {
		recognizer = HeuristicRecognizer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{recognizer: recognizer, logger: logger}
}

// Parse extracts every field independently. It never fails: a recognizer error
// only leaves the name empty.
func (p *Parser) Parse(ctx context.Context, text string) *Record {
	record := Empty()
	record.Name = p.name(ctx, text)
	record.Email = ExtractEmail(text)
	record.Phone = ExtractPhone(text)
	record.Skills = ExtractSkills(text)
	record.Education = ExtractEducation(text)
	record.Experience = ExtractExperience(text)
	record.Sections = BuildSections(record.Education, record.Experience, record.Skills)

	p.logger.Debug("resume parsed",
		zap.Bool("name_found", record.Name != ""),
		zap.Bool("email_found", record.Email != ""),
		zap.Bool("phone_found", record.Phone != ""),
		zap.Int("skills", len(record.Skills)),
		zap.Int("education", len(record.Education)),
		zap.Int("experience", len(record.Experience)),
	)

	return record
}

func (p *Parser) name(ctx context.Context, text string) string {
	if text == "" {
		return ""
	}

	entities, err := p.recognizer.Entities(ctx, text)
	if err != nil {
		p.logger.Warn("entity recognition failed, leaving name empty", zap.Error(err))
		return ""
	}

	person, ok := ai.FirstEntity(entities, ai.LabelPerson)
	if !ok {
		return ""
	}
	return person.Text
}
