// Package ai declares the capabilities the analysis core needs from language models.
// Implementations live in subpackages; the core never knows which model backs them.
package ai

import (
	"context"
	"fmt"
)

// LabelPerson is the entity label of a person name.
const LabelPerson = "PERSON"

// Entity is a labelled span of the analysed text.
type Entity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EntityRecognizer finds named entities in unstructured prose.
type EntityRecognizer interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// Advisor answers free-text career questions. It never fails: problems are
// reported inside the returned text.
type Advisor interface {
	Advise(ctx context.Context, query string) string
}

// Unavailable is an Advisor used when no provider could be configured.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Advise(context.Context, string) string {
	return fmt.Sprintf("🚨 Career coach is unavailable: %s", u.Reason)
}

// FirstEntity returns the first entity with the given label.
func FirstEntity(entities []Entity, label string) (Entity, bool) {
	for _, e := range entities {
		if e.Label == label {
			return e, true
		}
	}
	return Entity{}, false
}
