// Package filtering shortlists batch analysis results through a sequence of filter steps.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analysis"
)

// Filter represents a single step applied to analysis results.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, results []*analysis.Result) ([]*analysis.Result, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Run executes the enabled filters in order. The input slice is not modified.
func Run(ctx context.Context, steps []Filter, results []*analysis.Result, logger *zap.Logger) ([]*analysis.Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	current := append([]*analysis.Result(nil), results...)
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		current = next
	}

	return current, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func keep(results []*analysis.Result, pred func(*analysis.Result) bool) ([]*analysis.Result, Step) {
	out := make([]*analysis.Result, 0, len(results))
	for _, r := range results {
		if r != nil && pred(r) {
			out = append(out, r)
		}
	}
	return out, Step{Initial: len(results), Dropped: len(results) - len(out), Left: len(out)}
}

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }
