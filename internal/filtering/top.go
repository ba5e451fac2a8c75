package filtering

import (
	"context"
	"sort"

	"github.com/spigell/resume-analyzer/internal/analysis"
)

type topFilter struct {
	toggle
	n int
}

// NewTop orders results by score, best first, and keeps the first n.
// Equal scores keep their input order. A non-positive n only sorts.
func NewTop(n int) Filter {
	return &topFilter{n: n}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Apply(_ context.Context, results []*analysis.Result) ([]*analysis.Result, Step, error) {
	sorted, _ := keep(results, func(*analysis.Result) bool { return true })
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score() > sorted[j].Score()
	})
	if f.n > 0 && len(sorted) > f.n {
		sorted = sorted[:f.n]
	}
	return sorted, Step{Initial: len(results), Dropped: len(results) - len(sorted), Left: len(sorted)}, nil
}
