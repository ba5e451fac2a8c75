package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/ai"
)

const recognizerInstruction = `You are a named-entity recognizer for resumes.
Return a JSON array of objects with the fields "label" and "text".
Use the label PERSON for full names of people. Copy "text" exactly as it appears in the input.
Return [] when there are no entities. Do not add commentary.`

// maxRecognizerInput bounds the text sent for recognition. Names sit near the top of a resume.
const maxRecognizerInput = 4000

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, message string, schema *genai.Schema) (string, error)
}

var entitySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"label": {Type: genai.TypeString, Enum: []string{ai.LabelPerson}},
			"text":  {Type: genai.TypeString},
		},
		Required: []string{"label", "text"},
	},
}

// Recognizer finds entities by asking the model for a JSON entity list.
type Recognizer struct {
	generator jsonGenerator
}

func NewRecognizer(generator jsonGenerator) *Recognizer {
	return &Recognizer{generator: generator}
}

// Entities returns the recognised entities that occur verbatim in text, with byte offsets.
func (r *Recognizer) Entities(ctx context.Context, text string) ([]ai.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []ai.Entity{}, nil
	}

	raw, err := r.generator.GenerateJSON(ctx, recognizerInstruction, truncateRunes(text, maxRecognizerInput), entitySchema)
	if err != nil {
		return nil, err
	}

	return parseEntities(raw, text)
}

func parseEntities(raw, text string) ([]ai.Entity, error) {
	var items []map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &items); err != nil {
		return nil, fmt.Errorf("parse gemini entities: %w", err)
	}

	entities := make([]ai.Entity, 0, len(items))
	for _, item := range items {
		label := strings.ToUpper(coerceString(item["label"]))
		value := coerceString(item["text"])
		if label == "" || value == "" {
			continue
		}

		start := strings.Index(text, value)
		if start < 0 {
			continue
		}

		entities = append(entities, ai.Entity{Label: label, Text: value, Start: start, End: start + len(value)})
	}

	sort.SliceStable(entities, func(i, j int) bool { return entities[i].Start < entities[j].Start })
	return entities, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
