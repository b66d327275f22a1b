package wave

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BatchRequest asks for one sequence.
type BatchRequest struct {
	Start int
	Count int
	Seed  uint32
}

// Batch generates one sequence per request using up to workers goroutines.
// Results are in request order. Cancelling ctx stops requests that have
// not started yet.
func (g *Generator) Batch(ctx context.Context, reqs []BatchRequest, workers int) ([][]Pattern, error) {
	out := make([][]Pattern, len(reqs))

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, req := range reqs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("wave: batch request %d: %w", i, err)
			}
			out[i] = g.Sequence(req.Start, req.Count, &req.Seed)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Unique drops patterns whose tile layout was already seen, keeping the
// first occurrence.
func Unique(patterns []Pattern) []Pattern {
	seen := make(map[uint64]struct{}, len(patterns))
	out := patterns[:0:0]
	for _, p := range patterns {
		fp := p.Fingerprint()
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, p)
	}
	return out
}
