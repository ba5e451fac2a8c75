package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel analyses in a batch.
const DefaultConcurrency = 4

// Outcome is the result of one batch entry. Exactly one of Result and Err is set.
type Outcome struct {
	Input  Input
	Result *Result
	Err    error
}

// AnalyzeBatch analyses every input independently, at most concurrency at a time.
// Outcomes keep the order of inputs. A failed entry does not stop the others;
// only cancellation of ctx does.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, inputs []Input, concurrency int) ([]Outcome, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	outcomes := make([]Outcome, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := a.Analyze(gctx, in)
			outcomes[i] = Outcome{Input: in, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}
