package update

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"datagen/internal/model"
)

// UpdateAll runs the requests one after another under a single run ID.
// Cancellation is observed between units only: a started unit always
// completes, and no unit starts once ctx is done.
func (c *Coordinator) UpdateAll(ctx context.Context, actor string, reqs []Request) *Report {
	report := c.newReport(actor)

	c.logger.Info("batch started",
		zap.String("run", report.Run),
		zap.String("actor", actor),
		zap.Int("units", len(reqs)))

	for i, req := range reqs {
		if ctx.Err() != nil {
			report.Summary.Skipped = len(reqs) - i
			break
		}

		o := c.update(context.WithoutCancel(ctx), report.Run, actor, req)
		report.Outcomes = append(report.Outcomes, o)
		report.Summary.Add(o)

		if c.opts.Progress != nil {
			c.opts.Progress(o)
		}
	}

	c.logBatch(report)

	return report
}

// UpdateAllParallel runs up to workers units at a time. Outcomes keep the
// request order; each artifact's read-modify-write is serialized by its
// lock, so requests sharing a target never interleave.
func (c *Coordinator) UpdateAllParallel(ctx context.Context, actor string, reqs []Request, workers int) *Report {
	report := c.newReport(actor)

	outcomes := make([]*Outcome, len(reqs))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, req := range reqs {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			o := c.update(context.WithoutCancel(ctx), report.Run, actor, req)
			outcomes[i] = &o

			if c.opts.Progress != nil {
				c.opts.Progress(o)
			}

			return nil
		})
	}

	_ = g.Wait()

	for _, o := range outcomes {
		if o == nil {
			report.Summary.Skipped++
			continue
		}

		report.Outcomes = append(report.Outcomes, *o)
		report.Summary.Add(*o)
	}

	c.logBatch(report)

	return report
}

// Requests returns one request per annotated type in types.
func Requests(types []*model.Type) []Request {
	reqs := make([]Request, 0, len(types))
	for _, t := range types {
		if len(t.Annotation) == 0 {
			continue
		}

		reqs = append(reqs, Request{Model: t.ID})
	}

	return reqs
}

func (c *Coordinator) newReport(actor string) *Report {
	return &Report{Run: uuid.NewString(), Actor: actor}
}

func (c *Coordinator) logBatch(r *Report) {
	c.logger.Info("batch finished",
		zap.String("run", r.Run),
		zap.String("actor", r.Actor),
		zap.Int("updated", r.Summary.Updated),
		zap.Int("unchanged", r.Summary.Unchanged),
		zap.Int("failed", r.Summary.Failed),
		zap.Int("skipped", r.Summary.Skipped))
}
