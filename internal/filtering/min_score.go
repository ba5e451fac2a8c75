package filtering

import (
	"context"
	"strconv"

	"github.com/spigell/resume-analyzer/internal/analysis"
)

type minScoreFilter struct {
	toggle
	min float64
}

// NewMinScore drops results scoring below min. A non-positive min disables the filter.
func NewMinScore(min float64) Filter {
	f := &minScoreFilter{min: min}
	if min <= 0 {
		f.Disable("minimum score is not set")
	}
	return f
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Apply(_ context.Context, results []*analysis.Result) ([]*analysis.Result, Step, error) {
	out, step := keep(results, func(r *analysis.Result) bool { return r.Score() >= f.min })
	return out, step, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min": strconv.FormatFloat(f.min, 'f', -1, 64)},
	}
}
