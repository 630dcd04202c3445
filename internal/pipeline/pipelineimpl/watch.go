package pipelineimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline"
)

// Watch re-runs the keyword pipeline on a fixed interval until the context
// is cancelled. Each run merges into the same master outputs, so repeated
// runs only refresh engagement counts and pick up new posts.
func (p *PipelineImpl) Watch(ctx context.Context, every time.Duration, opts pipeline.Options) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create watch scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				p.Logger.Info("Context cancelled, stopping watch run")
				return
			}

			runCtx, cancel := context.WithTimeout(ctx, every)
			defer cancel()

			p.Logger.Info("Starting scheduled pipeline run", "keywords", opts.Keywords)
			summary, err := p.Run(runCtx, opts)
			if err != nil {
				p.Logger.Error("Scheduled pipeline run failed", "error", err)
				return
			}
			p.Logger.Info("Scheduled pipeline run completed",
				"urls", summary.URLsFound,
				"parsed", summary.Parsed,
				"total", summary.CollectionSize,
			)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule pipeline run: %w", err)
	}

	scheduler.Start()

	<-ctx.Done()
	p.Logger.Info("Stopping watch scheduler")
	if err := scheduler.Shutdown(); err != nil {
		p.Logger.Error("Failed to shut down watch scheduler", "error", err)
	}
	return nil
}
