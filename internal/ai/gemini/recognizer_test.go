package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/ai"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
	lastHistory []Turn
	calls       int
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.calls++
	s.lastSystem, s.lastMessage = system, message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, system, message string, _ *genai.Schema) (string, error) {
	return s.GenerateContent(ctx, system, message)
}

func (s *stubGenerator) Continue(ctx context.Context, system string, history []Turn, message string) (string, error) {
	s.lastHistory = history
	return s.GenerateContent(ctx, system, message)
}

func TestRecognizerEntities(t *testing.T) {
	text := "RESUME\nJane Doe\nSoftware Engineer at Google"
	stub := &stubGenerator{response: "```json\n[{\"label\": \"person\", \"text\": \" Jane Doe \"}, {\"label\": \"PERSON\", \"text\": \"John Ghost\"}, {\"label\": \"ORG\", \"text\": \"Google\"}]\n```"}

	entities, err := NewRecognizer(stub).Entities(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %+v", entities)
	}

	person := entities[0]
	if person.Label != ai.LabelPerson || person.Text != "Jane Doe" {
		t.Fatalf("unexpected person entity: %+v", person)
	}
	if text[person.Start:person.End] != "Jane Doe" {
		t.Fatalf("offsets do not point at the entity: %d..%d", person.Start, person.End)
	}

	if entities[1].Label != "ORG" || entities[1].Start != strings.Index(text, "Google") {
		t.Fatalf("unexpected org entity: %+v", entities[1])
	}

	if stub.lastSystem != recognizerInstruction || stub.lastMessage != text {
		t.Fatalf("unexpected request: %q / %q", stub.lastSystem, stub.lastMessage)
	}
}

func TestRecognizerOrdersEntitiesByPosition(t *testing.T) {
	text := "Jane Doe\nReferences: John Smith"
	stub := &stubGenerator{response: `[{"label": "PERSON", "text": "John Smith"}, {"label": "PERSON", "text": "Jane Doe"}]`}

	entities, err := NewRecognizer(stub).Entities(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	person, ok := ai.FirstEntity(entities, ai.LabelPerson)
	if !ok || person.Text != "Jane Doe" || person.Start != 0 {
		t.Fatalf("expected the earliest person in the text, got %+v", entities)
	}
}

func TestRecognizerBlankTextSkipsModel(t *testing.T) {
	stub := &stubGenerator{}

	entities, err := NewRecognizer(stub).Entities(context.Background(), " \n ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entities) != 0 || stub.calls != 0 {
		t.Fatalf("expected no entities and no calls, got %+v after %d calls", entities, stub.calls)
	}
}

func TestRecognizerErrors(t *testing.T) {
	if _, err := NewRecognizer(&stubGenerator{err: errors.New("down")}).Entities(context.Background(), "Jane Doe"); err == nil {
		t.Fatal("expected generator error")
	}

	if _, err := NewRecognizer(&stubGenerator{response: "not json"}).Entities(context.Background(), "Jane Doe"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRecognizerTruncatesLongInput(t *testing.T) {
	stub := &stubGenerator{response: "[]"}
	text := strings.Repeat("ж", maxRecognizerInput+10)

	if _, err := NewRecognizer(stub).Entities(context.Background(), text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len([]rune(stub.lastMessage)); got != maxRecognizerInput {
		t.Fatalf("expected %d runes, got %d", maxRecognizerInput, got)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"```json\n[1]\n```": "[1]",
		"```\n{}\n```":      "{}",
		"  [] ":             "[]",
		"`[2]`":             "[2]",
	}

	for in, want := range cases {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
