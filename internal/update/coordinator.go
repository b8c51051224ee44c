package update

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"datagen/internal/annotation"
	"datagen/internal/collect"
	"datagen/internal/diagnostic"
	"datagen/internal/format"
	"datagen/internal/journal"
	"datagen/internal/model"
	"datagen/internal/store"
	"datagen/internal/synth"
)

// Confirmer decides whether a missing artifact may be created.
type Confirmer interface {
	ConfirmCreate(ref store.ArtifactRef) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ref store.ArtifactRef) bool

// ConfirmCreate implements Confirmer.
func (f ConfirmFunc) ConfirmCreate(ref store.ArtifactRef) bool {
	return f(ref)
}

// Options configures a Coordinator. Nil collaborators fall back to
// defaults: GoFormatter, no organizer, confirm everything, no journal.
type Options struct {
	Collect   collect.Config
	Style     format.Style
	Formatter format.Formatter
	Organizer format.Organizer
	Confirmer Confirmer
	Journal   journal.Recorder
	// DryRun computes outcomes and diffs without touching the store.
	DryRun bool
	// DebugDir receives unformattable source for inspection.
	DebugDir string
	// Progress is called after each unit of a batch, concurrently in
	// parallel batches.
	Progress func(Outcome)
}

// DefaultOptions returns options for the datamodel library with gofmt style.
func DefaultOptions() Options {
	return Options{
		Collect: collect.DefaultConfig(),
		Style:   format.DefaultStyle(),
	}
}

// Coordinator runs generate-diff-persist cycles.
type Coordinator struct {
	provider model.Provider
	synth    *synth.Synthesizer
	store    store.Store
	locks    *store.Locks
	opts     Options
	logger   *zap.Logger
}

// New creates a Coordinator persisting into st.
func New(p model.Provider, st store.Store, opts Options, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.Formatter == nil {
		opts.Formatter = format.GoFormatter{}
	}

	if opts.Confirmer == nil {
		opts.Confirmer = ConfirmFunc(func(store.ArtifactRef) bool { return true })
	}

	return &Coordinator{
		provider: p,
		synth:    synth.New(p, opts.Collect, logger),
		store:    st,
		locks:    store.NewLocks(),
		opts:     opts,
		logger:   logger,
	}
}

// Update runs one request. actor identifies who asked for the generation;
// it is logged and journaled, never written into the artifact.
func (c *Coordinator) Update(ctx context.Context, actor string, req Request) Outcome {
	return c.update(ctx, uuid.NewString(), actor, req)
}

// unit carries one request through the stages.
type unit struct {
	run   string
	actor string
	req   Request
	out   Outcome
}

func (c *Coordinator) update(ctx context.Context, run, actor string, req Request) Outcome {
	u := &unit{run: run, actor: actor, req: req}
	u.out.Model = req.Model
	u.out.DryRun = c.opts.DryRun

	err := c.cycle(ctx, u)
	if err != nil {
		u.out.Status = StatusFailed
		u.out.Reason = err
		u.out.Diagnostics.AddError(diagnostic.ErrorCode(err), err.Error(), req.Model.String(), "")

		c.logger.Error("update failed",
			zap.String("run", run),
			zap.String("actor", actor),
			zap.Stringer("model", req.Model),
			zap.Stringer("artifact", u.out.Artifact),
			zap.Stringer("stage", u.out.Stage),
			zap.Error(err))
	}

	if codes := u.out.Diagnostics.WarningCodes(); len(codes) > 0 {
		c.logger.Warn("unit built with warnings",
			zap.String("run", run),
			zap.Stringer("model", req.Model),
			zap.Strings("codes", codes))
	}

	c.record(ctx, u)

	return u.out
}

// cycle is the state machine. Every return with an error leaves the
// persisted artifact as it was, except for a failing import organizer run
// after the write. Missing artifacts are created only once their content
// has been built and formatted.
func (c *Coordinator) cycle(ctx context.Context, u *unit) error {
	u.out.Stage = StageResolve

	container, desc, err := c.resolve(u.req)
	if err != nil {
		return err
	}

	ref := store.ArtifactRef{Name: desc.Target.Name, Package: desc.Target.PkgPath, Kind: desc.Kind}
	if u.req.Target != nil {
		ref = *u.req.Target
	}
	u.out.Artifact = ref

	release, err := c.locks.Acquire(ctx, ref)
	if err != nil {
		return err
	}
	defer release()

	persisted, exists, err := c.store.Read(ctx, ref)
	if err != nil {
		return err
	}

	if !exists && !c.opts.Confirmer.ConfirmCreate(ref) {
		return ErrDeclined
	}

	u.out.Stage = StageBuild

	built, diags, err := c.synth.BuildWith(container, desc)
	u.out.Diagnostics = diags
	if err != nil {
		return err
	}

	src, err := synth.Render(built)
	if err != nil {
		return err
	}

	u.out.Stage = StageFormat

	formatted, err := c.opts.Formatter.Format(src, c.opts.Style)
	if err != nil {
		if derr := format.WriteDebug(c.opts.DebugDir, ref.Filename(), err); derr != nil {
			c.logger.Warn("writing unformatted source", zap.Error(derr))
		}

		return err
	}

	u.out.Stage = StageDiff
	u.out.Digest = digest(formatted)

	if exists && u.out.Digest == digest(persisted) {
		u.out.Stage = StageNoOp
		u.out.Status = StatusNoChange

		return nil
	}

	u.out.Stage = StagePersist
	u.out.Status = StatusUpdated

	if c.opts.DryRun {
		u.out.Diff, err = unifiedDiff(ref.Filename(), persisted, formatted)
		if err != nil {
			return fmt.Errorf("diffing %s: %w", ref, err)
		}

		u.out.Stage = StageDone

		return nil
	}

	if !exists {
		if err := c.store.CreateSkeleton(ctx, ref); err != nil {
			return err
		}
	}

	if err := c.store.Write(ctx, ref, formatted); err != nil {
		return err
	}

	if err := c.organize(ctx, ref, formatted); err != nil {
		return err
	}

	u.out.Stage = StageDone

	c.logger.Info("artifact updated",
		zap.String("run", u.run),
		zap.String("actor", u.actor),
		zap.Stringer("artifact", ref),
		zap.String("digest", u.out.Digest))

	return nil
}

// resolve loads the model type and its descriptor and rejects requests
// that cannot produce an artifact.
func (c *Coordinator) resolve(req Request) (*model.Type, *annotation.Descriptor, error) {
	container, err := c.provider.Resolve(req.Model.String())
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %s: %w", req.Model, err)
	}

	desc := req.Descriptor
	if desc == nil {
		desc, err = c.synth.Resolver().ForType(container)
		if err != nil {
			return nil, nil, err
		}
	}

	if desc == nil {
		return nil, nil, &diagnostic.ConfigurationError{
			Element: container.QualifiedName(),
			Field:   annotation.KeyValue,
			Reason:  "type is not annotated for data generation",
		}
	}

	if desc.Target == container.ID {
		return nil, nil, &diagnostic.ConfigurationError{
			Element: container.QualifiedName(),
			Field:   annotation.KeyValue,
			Reason:  "data type refers to its own model type",
		}
	}

	return container, desc, nil
}

// organize runs the import organizer over the written artifact and writes
// its result back when it changed anything.
func (c *Coordinator) organize(ctx context.Context, ref store.ArtifactRef, written []byte) error {
	if c.opts.Organizer == nil {
		return nil
	}

	filename := ref.Filename()
	if l, ok := c.store.(store.Locator); ok {
		if p, err := l.Path(ref); err == nil {
			filename = p
		}
	}

	organized, err := c.opts.Organizer.Organize(filename, written)
	if err != nil {
		return err
	}

	if bytes.Equal(organized, written) {
		return nil
	}

	return c.store.Write(ctx, ref, organized)
}

// record journals the outcome. Journal failures are logged only.
func (c *Coordinator) record(ctx context.Context, u *unit) {
	if c.opts.Journal == nil || c.opts.DryRun || u.out.Artifact.Name == "" {
		return
	}

	e := journal.Entry{
		Run:      u.run,
		Actor:    u.actor,
		Model:    u.req.Model.String(),
		Artifact: u.out.Artifact.String(),
		Digest:   u.out.Digest,
		Status:   u.out.Status.String(),
	}

	if u.out.Diagnostics.HasErrors() {
		e.Reason = u.out.Diagnostics.Error().Error()
	}

	if err := c.opts.Journal.Record(context.WithoutCancel(ctx), e); err != nil {
		c.logger.Warn("journal record failed", zap.String("run", u.run), zap.Error(err))
	}
}

// IsDeclined reports whether err is a declined artifact creation.
func IsDeclined(err error) bool {
	return errors.Is(err, ErrDeclined)
}
