package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"datagen/internal/journal"
	"datagen/internal/model"
	"datagen/internal/update"
	"datagen/internal/watch"
)

// errStale is returned by check when an artifact differs from its model.
var errStale = errors.New("generated data types are stale")

// GenerateCmd generates the data type of one model type.
type GenerateCmd struct {
	Type   string `arg:"" help:"Qualified model type, e.g. example.com/shop.PersonTable"`
	DryRun bool   `name:"dry-run" help:"Show the diff instead of writing"`
}

func (c *GenerateCmd) Run(ctx context.Context, kctx *kong.Context, g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	reg, err := a.loadModel(ctx)
	if err != nil {
		return err
	}

	coord := a.coordinator(reg, c.DryRun, prompter(g.Yes, os.Stdin, kctx.Stdout))
	out := coord.Update(ctx, a.actor, update.Request{Model: model.ParseTypeID(c.Type)})
	printOutcome(kctx.Stdout, out)

	if out.Status == update.StatusFailed {
		return fmt.Errorf("generating %s: %w", c.Type, out.Reason)
	}

	return nil
}

// UpdateCmd updates data types in a batch.
type UpdateCmd struct {
	Types  []string `arg:"" optional:"" help:"Qualified model types; all annotated types when empty"`
	DryRun bool     `name:"dry-run" help:"Show diffs instead of writing"`
}

func (c *UpdateCmd) Run(ctx context.Context, kctx *kong.Context, g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := batch(ctx, a, c.Types, c.DryRun, prompter(g.Yes, os.Stdin, kctx.Stdout))
	if err != nil {
		return err
	}

	printReport(kctx.Stdout, report)

	return failed(report)
}

// CheckCmd reports stale data types. It never writes and never creates.
type CheckCmd struct {
	Types []string `arg:"" optional:"" help:"Qualified model types; all annotated types when empty"`
}

func (c *CheckCmd) Run(ctx context.Context, kctx *kong.Context, g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := batch(ctx, a, c.Types, true, nil)
	if err != nil {
		return err
	}

	printReport(kctx.Stdout, report)

	if err := failed(report); err != nil {
		return err
	}

	if report.Summary.Updated > 0 {
		return fmt.Errorf("%d of %d: %w", report.Summary.Updated, len(report.Outcomes), errStale)
	}

	return nil
}

// WatchCmd regenerates whenever model sources change.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before regenerating (overrides config)"`
}

func (c *WatchCmd) Run(ctx context.Context, kctx *kong.Context, g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	dirs, err := a.sourceDirs(ctx)
	if err != nil {
		return err
	}

	debounce := a.cfg.Watch.Debounce
	if c.Debounce > 0 {
		debounce = c.Debounce
	}

	regenerate := func(ctx context.Context, changed []string) {
		report, err := batch(ctx, a, nil, false, nil)
		if err != nil {
			a.logger.Error("loading model", zap.Error(err), zap.Strings("changed", changed))
			return
		}

		printReport(kctx.Stdout, report)
	}

	w, err := watch.New(watch.Options{Dirs: dirs, Debounce: debounce}, regenerate, a.logger)
	if err != nil {
		return err
	}

	regenerate(ctx, nil)
	a.logger.Info("watching model sources", zap.Strings("dirs", dirs))

	return w.Run(ctx)
}

// HistoryCmd lists journal entries.
type HistoryCmd struct {
	Artifact string `help:"Only entries of this artifact (package.Name)"`
	RunID    string `name:"run" help:"Only entries of this run"`
	Limit    int    `help:"Maximum number of entries" default:"20"`
}

func (c *HistoryCmd) Run(ctx context.Context, kctx *kong.Context, g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.journal == nil {
		return errors.New("journal disabled: set journal.path in the configuration")
	}

	entries, err := a.journal.List(ctx, journal.Filter{Run: c.RunID, Artifact: c.Artifact, Limit: c.Limit})
	if err != nil {
		return err
	}

	printHistory(kctx, entries)

	return nil
}

func printHistory(kctx *kong.Context, entries []journal.Entry) {
	tw := tabwriter.NewWriter(kctx.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AT\tRUN\tACTOR\tARTIFACT\tSTATUS\tDIGEST")

	for _, e := range entries {
		digest := e.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.At.Local().Format(time.DateTime), e.Run, e.Actor, e.Artifact, e.Status, digest)
	}

	_ = tw.Flush()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(kctx *kong.Context) error {
	fmt.Fprintf(kctx.Stdout, "datagen %s\n", version)
	return nil
}

// batch loads the model and runs the selected requests.
func batch(ctx context.Context, a *app, types []string, dryRun bool, confirm update.Confirmer) (*update.Report, error) {
	reg, err := a.loadModel(ctx)
	if err != nil {
		return nil, err
	}

	reqs, err := requests(reg, types)
	if err != nil {
		return nil, err
	}

	return a.run(ctx, a.coordinator(reg, dryRun, confirm), reqs), nil
}

func failed(r *update.Report) error {
	if r.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d updates failed", r.Summary.Failed, len(r.Outcomes))
	}

	return nil
}
