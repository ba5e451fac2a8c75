package resume

import (
	"context"
	"regexp"
	"strings"

	"github.com/spigell/resume-analyzer/internal/ai"
)

var (
	capitalizedRunRe = regexp.MustCompile(`\b[A-Z][A-Za-z'-]+(?:[ \t]+[A-Z][A-Za-z'-]+)+\b`)
	tokenRe          = regexp.MustCompile(`[A-Za-z'-]+`)
)

// nonNameWords are capitalised words that commonly open resume lines but never belong to a name.
var nonNameWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		resume curriculum vitae cv summary objective profile contact contacts about
		education experience work employment history skills technical projects project
		certifications certification achievements awards languages interests references
		university institute college school academy bachelor master masters science arts
		engineer engineering developer analyst specialist manager director consultant
		intern internship lead senior junior principal staff head chief officer
		software data machine learning cloud web full stack backend frontend
		inc llc ltd corp corporation company group technologies solutions systems labs
		street avenue road city email phone mobile linkedin github address
		present current january february march april may june july august
		september october november december the and of for in at with`) {
		nonNameWords[w] = struct{}{}
	}
}

// HeuristicRecognizer finds PERSON entities as runs of two to four capitalised
// words on one line that contain no typical resume vocabulary.
type HeuristicRecognizer struct{}

func (HeuristicRecognizer) Entities(_ context.Context, text string) ([]ai.Entity, error) {
	entities := make([]ai.Entity, 0)

	for _, loc := range capitalizedRunRe.FindAllStringIndex(text, -1) {
		candidate := text[loc[0]:loc[1]]
		tokens := tokenRe.FindAllStringIndex(candidate, -1)

		runStart := -1
		flush := func(end int) {
			if runStart == -1 {
				return
			}
			count := end - runStart
			if count >= 2 && count <= 4 {
				start := loc[0] + tokens[runStart][0]
				stop := loc[0] + tokens[end-1][1]
				entities = append(entities, ai.Entity{
					Label: ai.LabelPerson,
					Text:  text[start:stop],
					Start: start,
					End:   stop,
				})
			}
			runStart = -1
		}

		for i, tok := range tokens {
			word := strings.ToLower(candidate[tok[0]:tok[1]])
			if _, stop := nonNameWords[word]; stop {
				flush(i)
				continue
			}
			if runStart == -1 {
				runStart = i
			}
		}
		flush(len(tokens))
	}

	return entities, nil
}
