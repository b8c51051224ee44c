package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"datagen/internal/analyze"
	"datagen/internal/config"
	"datagen/internal/format"
	"datagen/internal/journal"
	"datagen/internal/logging"
	"datagen/internal/match"
	"datagen/internal/model"
	"datagen/internal/model/modelfile"
	"datagen/internal/store"
	"datagen/internal/update"
)

// app holds what every command needs.
type app struct {
	cfg     *config.Config
	actor   string
	logger  *zap.Logger
	journal *journal.Journal
	store   *store.FS
}

func newApp(g *Globals) (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		actor:  cfg.Actor,
		logger: logger,
		store:  store.NewFS(cfg.Root, cfg.Module),
	}

	if g.Actor != "" {
		a.actor = g.Actor
	}

	if cfg.Journal.Path != "" {
		path := cfg.ResolvePath(cfg.Journal.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}

		if a.journal, err = journal.Open(path); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("closing journal", zap.Error(err))
		}
	}

	_ = a.logger.Sync()
}

// loadModel reads the model with the configured provider.
func (a *app) loadModel(ctx context.Context) (*model.Registry, error) {
	switch a.cfg.Source {
	case config.SourceYAML:
		paths := make([]string, len(a.cfg.Models))
		for i, p := range a.cfg.Models {
			paths[i] = a.cfg.ResolvePath(p)
		}

		return modelfile.Load(paths...)
	default:
		return analyze.New(a.cfg.Root, nil, a.logger).Load(ctx, a.cfg.Packages...)
	}
}

// sourceDirs lists the directories holding model sources.
func (a *app) sourceDirs(ctx context.Context) ([]string, error) {
	if a.cfg.Source == config.SourceYAML {
		var dirs []string
		for _, p := range a.cfg.Models {
			dirs = append(dirs, filepath.Dir(a.cfg.ResolvePath(p)))
		}

		return dirs, nil
	}

	return analyze.New(a.cfg.Root, nil, a.logger).Dirs(ctx, a.cfg.Packages...)
}

func (a *app) coordinator(reg *model.Registry, dryRun bool, confirm update.Confirmer) *update.Coordinator {
	opts := update.Options{
		Collect:   a.cfg.CollectConfig(),
		Style:     a.cfg.FormatStyle(),
		Confirmer: confirm,
		DryRun:    dryRun,
		DebugDir:  a.cfg.ResolvePath(a.cfg.DebugDir),
	}

	if a.cfg.Style.OrganizeImports {
		opts.Organizer = format.ImportsOrganizer{Fix: a.cfg.Style.FixImports}
	}

	if a.journal != nil {
		opts.Journal = a.journal
	}

	return update.New(reg, a.store, opts, a.logger)
}

// run executes reqs, in parallel when more than one worker is configured.
func (a *app) run(ctx context.Context, coord *update.Coordinator, reqs []update.Request) *update.Report {
	if a.cfg.Workers > 1 {
		return coord.UpdateAllParallel(ctx, a.actor, reqs, a.cfg.Workers)
	}

	return coord.UpdateAll(ctx, a.actor, reqs)
}

// requests resolves type names to requests; no names selects every
// annotated type, ancestors first.
func requests(reg *model.Registry, names []string) ([]update.Request, error) {
	if len(names) == 0 {
		return update.Ordered(reg, reg.Annotated())
	}

	reqs := make([]update.Request, 0, len(names))
	for _, n := range names {
		t, err := reg.Resolve(n)
		if err != nil {
			return nil, withSuggestion(err, n, reg)
		}
		reqs = append(reqs, update.Request{Model: t.ID})
	}

	return reqs, nil
}

// withSuggestion names the closest annotated type in err, if any.
func withSuggestion(err error, name string, reg *model.Registry) error {
	var known []string
	for _, t := range reg.Annotated() {
		known = append(known, t.QualifiedName())
	}

	simple := func(q string) string { return model.ParseTypeID(q).Name }

	hint := match.Suggest(simple(name), known, simple, 1)
	if len(hint) == 0 {
		return err
	}

	return fmt.Errorf("%w (did you mean %s?)", err, hint[0])
}

// prompter asks on in before a missing artifact is created.
func prompter(yes bool, in io.Reader, out io.Writer) update.Confirmer {
	if yes {
		return nil
	}

	reader := bufio.NewReader(in)

	return update.ConfirmFunc(func(ref store.ArtifactRef) bool {
		fmt.Fprintf(out, "%s does not exist. Create it? [y/N] ", ref)

		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))

		return answer == "y" || answer == "yes"
	})
}

// printReport writes one line per outcome and the summary.
func printReport(w io.Writer, r *update.Report) {
	for _, o := range r.Outcomes {
		printOutcome(w, o)
	}

	fmt.Fprintf(w, "run %s: %d updated, %d unchanged, %d failed, %d skipped\n",
		r.Run, r.Summary.Updated, r.Summary.Unchanged, r.Summary.Failed, r.Summary.Skipped)
}

func printOutcome(w io.Writer, o update.Outcome) {
	target := o.Artifact.String()
	if target == "" {
		target = o.Model.String()
	}

	switch o.Status {
	case update.StatusFailed:
		fmt.Fprintf(w, "%-9s %s: %v\n", o.Status, target, o.Reason)
	default:
		fmt.Fprintf(w, "%-9s %s\n", o.Status, target)
	}

	for _, d := range o.Diagnostics.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", d.Message)
	}

	if o.Diff != "" {
		fmt.Fprint(w, o.Diff)
	}
}
