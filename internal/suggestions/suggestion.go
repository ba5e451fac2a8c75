// Package suggestions turns a parsed resume and its match score into ordered,
// severity-tagged improvement advice.
package suggestions

import "fmt"

// Severity classifies how urgent a suggestion is.
type Severity string

const (
	Critical Severity = "critical"
	Warning  Severity = "warning"
	Positive Severity = "positive"
	Info     Severity = "info"
)

// Category groups suggestions by the rule that produced them. Generate emits
// categories in the order they are declared here.
type Category string

const (
	CategoryScore     Category = "score"
	CategorySkillGap  Category = "skill_gap"
	CategoryStructure Category = "structure"
	CategoryContent   Category = "content"
	CategoryContact   Category = "contact"
	CategoryBonus     Category = "bonus"
)

// Suggestion is a single piece of advice.
type Suggestion struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
}

// String renders the suggestion as a Markdown line, e.g. "🟢 **Strong Match**: ...".
func (s Suggestion) String() string {
	return fmt.Sprintf("%s **%s**: %s", s.Icon, s.Title, s.Text)
}

// Strings renders every suggestion with String.
func Strings(list []Suggestion) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.String()
	}
	return out
}
