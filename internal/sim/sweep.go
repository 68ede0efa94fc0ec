package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Factory builds a fresh simulator, metrics attached, over its own body set.
type Factory func() (*Simulator, error)

// Sweep replays the same session once per step size, concurrently. Every
// member gets its own simulator from build, so nothing is shared between
// goroutines. Results are returned in the order of dts.
func Sweep(ctx context.Context, build Factory, cfg Config, dts []float64) ([]*Result, error) {
	results := make([]*Result, len(dts))

	g, ctx := errgroup.WithContext(ctx)
	for i, dt := range dts {
		g.Go(func() error {
			s, err := build()
			if err != nil {
				return err
			}

			member := cfg
			member.Dt = dt
			res, err := s.Run(ctx, member)
			if err != nil {
				return fmt.Errorf("dt %g: %w", dt, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
