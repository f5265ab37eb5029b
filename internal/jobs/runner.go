package jobs

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Runner starts every claim scheduler and the render job and waits for
// all of them to stop.
type Runner struct {
	schedulers []*ClaimScheduler
	render     *RenderJob
}

func NewRunner(schedulers []*ClaimScheduler, render *RenderJob) *Runner {
	return &Runner{
		schedulers: schedulers,
		render:     render,
	}
}

// Run blocks until ctx is cancelled and every goroutine has returned.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range r.schedulers {
		s := s
		g.Go(func() error {
			s.Run(ctx)
			return nil
		})
	}
	if r.render != nil {
		g.Go(func() error {
			r.render.Run(ctx)
			return nil
		})
	}

	log.Info().Int("accounts", len(r.schedulers)).Msg("schedulers started")
	err := g.Wait()
	log.Info().Msg("schedulers stopped")
	return err
}
