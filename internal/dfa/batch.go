package dfa

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// EvaluateAll evaluates every input on up to workers goroutines and returns
// the verdicts in input order. workers < 1 means one goroutine per input.
// It stops early and returns the context error if ctx is cancelled.
func (d *DFA) EvaluateAll(ctx context.Context, inputs []string, workers int) ([]bool, error) {
	results := make([]bool, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, input := range inputs {
		if gctx.Err() != nil {
			break
		}
		i, input := i, input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = d.Evaluate(input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// gctx is cancelled by Wait, so only the caller's context tells whether
	// the loop above was cut short
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
