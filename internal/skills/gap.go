package skills

import (
	"sort"
	"strconv"
)

// Gap is a job skill missing from the resume.
type Gap struct {
	Skill  string  `json:"skill"`
	Weight float64 `json:"weight"`
}

// Priority formats the weight as a multiplier, e.g. "1.5x".
func (g Gap) Priority() string {
	if g.Weight == float64(int64(g.Weight)) {
		return strconv.FormatFloat(g.Weight, 'f', 1, 64) + "x"
	}
	return strconv.FormatFloat(g.Weight, 'f', -1, 64) + "x"
}

// Gaps is ordered by the job skills' iteration order.
type Gaps []Gap

// Gaps returns the job skills absent from the resume annotated with their weight.
func (d *Dictionary) Gaps(resume, job Set) Gaps {
	gaps := make(Gaps, 0)
	for _, skill := range job.Sorted() {
		if resume.Has(skill) {
			continue
		}
		gaps = append(gaps, Gap{Skill: skill, Weight: d.Weight(skill)})
	}
	return gaps
}

// Top returns up to n gaps sorted by weight descending. Equal weights keep their order.
func (g Gaps) Top(n int) Gaps {
	sorted := make(Gaps, len(g))
	copy(sorted, g)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Map returns the gaps as skill -> weight.
func (g Gaps) Map() map[string]float64 {
	out := make(map[string]float64, len(g))
	for _, gap := range g {
		out[gap.Skill] = gap.Weight
	}
	return out
}

// Skills returns the missing skill names in order.
func (g Gaps) Skills() []string {
	out := make([]string, 0, len(g))
	for _, gap := range g {
		out = append(out, gap.Skill)
	}
	return out
}
