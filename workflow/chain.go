package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/spetersoncode/imagemcp"
	"github.com/spetersoncode/imagemcp/imagecodec"
)

// job is the state shared by the steps of one workflow run.
type job struct {
	prompt       string
	instructions string
	bitmap       *imagecodec.Bitmap
	image        imagemcp.Image
}

// stepFunc mutates the job in place.
type stepFunc func(ctx context.Context, j *job) error

type step struct {
	name string
	fn   stepFunc
}

// chain executes steps sequentially, passing the job between them.
type chain struct {
	name   string
	steps  []step
	logger *slog.Logger
}

func newChain(name string, logger *slog.Logger, steps ...step) *chain {
	return &chain{name: name, steps: steps, logger: logger}
}

// run stops at the first failing step and returns its error unchanged.
func (c *chain) run(ctx context.Context, j *job) error {
	start := time.Now()
	for _, s := range c.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		stepStart := time.Now()
		if err := s.fn(ctx, j); err != nil {
			c.logger.Debug("workflow step failed",
				"workflow", c.name,
				"step", s.name,
				"kind", imagemcp.KindOf(err),
				"error", err,
			)
			return err
		}
		c.logger.Debug("workflow step complete",
			"workflow", c.name,
			"step", s.name,
			"duration", time.Since(stepStart),
		)
	}
	c.logger.Debug("workflow complete", "workflow", c.name, "duration", time.Since(start))
	return nil
}
