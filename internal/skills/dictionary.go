// Package skills holds the weighted skill vocabulary and the keyword side of resume matching:
// extraction of known skills from free text, gap analysis and the weighted overlap score.
package skills

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DefaultWeight is the weight of a skill the dictionary does not track.
const DefaultWeight = 1.0

var defaultWeights = map[string]float64{
	// Technical
	"python":           1.5,
	"java":             1.3,
	"c++":              1.2,
	"machine learning": 1.8,
	"data analysis":    1.6,
	"sql":              1.4,
	"aws":              1.5,

	// Tools
	"tableau":  1.3,
	"power bi": 1.3,
	"excel":    1.1,

	// Soft skills
	"communication":   1.2,
	"leadership":      1.4,
	"problem-solving": 1.3,
}

// Dictionary is an immutable skill vocabulary with importance weights.
// It is safe for concurrent use.
type Dictionary struct {
	weights map[string]float64
	phrases []string
	words   []string
}

// Default returns the built-in vocabulary.
func Default() *Dictionary {
	d, err := NewDictionary(defaultWeights)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDictionary builds a vocabulary from the provided phrase -> weight table.
// Phrases are lowercased and whitespace-collapsed; weights must be positive.
func NewDictionary(weights map[string]float64) (*Dictionary, error) {
	d := &Dictionary{weights: make(map[string]float64, len(weights))}

	for raw, weight := range weights {
		skill := Normalize(raw)
		if skill == "" {
			return nil, fmt.Errorf("skill name must not be empty")
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
			return nil, fmt.Errorf("skill %q: weight must be a positive number, got %v", skill, weight)
		}
		d.weights[skill] = weight
	}

	for skill := range d.weights {
		if strings.Contains(skill, " ") {
			d.phrases = append(d.phrases, skill)
		} else {
			d.words = append(d.words, skill)
		}
	}
	sort.Strings(d.phrases)
	sort.Strings(d.words)

	return d, nil
}

// With returns a new dictionary with the overrides applied on top of d.
func (d *Dictionary) With(overrides map[string]float64) (*Dictionary, error) {
	merged := d.Weights()
	for skill, weight := range overrides {
		merged[Normalize(skill)] = weight
	}
	return NewDictionary(merged)
}

// Weight returns the importance of a skill, DefaultWeight when untracked.
func (d *Dictionary) Weight(skill string) float64 {
	if w, ok := d.weights[Normalize(skill)]; ok {
		return w
	}
	return DefaultWeight
}

// Has reports whether the skill belongs to the vocabulary.
func (d *Dictionary) Has(skill string) bool {
	_, ok := d.weights[Normalize(skill)]
	return ok
}

// Len returns the vocabulary size.
func (d *Dictionary) Len() int { return len(d.weights) }

// Skills returns the vocabulary in alphabetical order.
func (d *Dictionary) Skills() []string {
	out := make([]string, 0, len(d.weights))
	for skill := range d.weights {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}

// Weights returns a copy of the weight table.
func (d *Dictionary) Weights() map[string]float64 {
	return maps.Clone(d.weights)
}

// Normalize lowercases a skill phrase and collapses inner whitespace.
func Normalize(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), " ")
}

// DecodeWeights converts a loosely typed configuration section (for example
// viper's map[string]any) into a weight table. String numbers are accepted.
func DecodeWeights(raw any) (map[string]float64, error) {
	weights := make(map[string]float64)
	if raw == nil {
		return weights, nil
	}
	// a nil map wrapped in an interface is not == nil
	if rv := reflect.ValueOf(raw); rv.Kind() == reflect.Map && rv.Len() == 0 {
		return weights, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &weights,
	})
	if err != nil {
		return nil, fmt.Errorf("create weights decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode skill weights: %w", err)
	}

	return weights, nil
}
