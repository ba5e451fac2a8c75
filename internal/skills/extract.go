package skills

import "strings"

// Extract returns the vocabulary skills found in text. Multi-word phrases are
// matched by substring containment without word boundaries, so "excel" inside
// "excellent" does not count but "power bi" inside "power bill" does. Single
// words must equal one of the whitespace-delimited tokens of the text.
func (d *Dictionary) Extract(text string) Set {
	found := NewSet()
	if strings.TrimSpace(text) == "" {
		return found
	}

	lower := strings.ToLower(text)

	for _, phrase := range d.phrases {
		if strings.Contains(lower, phrase) {
			found.Add(phrase)
		}
	}

	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(lower) {
		tokens[token] = struct{}{}
	}
	for _, word := range d.words {
		if _, ok := tokens[word]; ok {
			found.Add(word)
		}
	}

	return found
}
