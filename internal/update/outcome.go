package update

import (
	"errors"

	"datagen/internal/annotation"
	"datagen/internal/common"
	"datagen/internal/diagnostic"
	"datagen/internal/model"
	"datagen/internal/store"
)

// ErrDeclined is the failure reason when creating a missing artifact was
// not confirmed.
var ErrDeclined = errors.New("artifact creation declined")

// Status is the result of one update.
type Status int

const (
	StatusUpdated Status = iota
	StatusNoChange
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusNoChange:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return common.UnknownStr
	}
}

// Stage is a step of the update state machine.
type Stage int

const (
	StageResolve Stage = iota
	StageBuild
	StageFormat
	StageDiff
	StageNoOp
	StagePersist
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageResolve:
		return "resolve"
	case StageBuild:
		return "build"
	case StageFormat:
		return "format"
	case StageDiff:
		return "diff"
	case StageNoOp:
		return "noop"
	case StagePersist:
		return "persist"
	case StageDone:
		return "done"
	default:
		return common.UnknownStr
	}
}

// Request asks for the data type of one model type.
type Request struct {
	// Model is the annotated model type.
	Model model.TypeID
	// Target overrides the artifact derived from the descriptor.
	Target *store.ArtifactRef
	// Descriptor is the pre-resolved annotation of Model; nil resolves it.
	Descriptor *annotation.Descriptor
}

// Outcome reports what an update did.
type Outcome struct {
	Model    model.TypeID
	Artifact store.ArtifactRef
	Status   Status
	// Stage is the last stage reached; for failures, the failing one.
	Stage Stage
	// Reason is set for failures.
	Reason error
	// Digest is the hex BLAKE3 digest of the normalized generated text.
	Digest string
	// Diff is the unified diff against the persisted text in dry runs.
	Diff        string
	DryRun      bool
	Diagnostics diagnostic.Diagnostics
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Updated   int
	Unchanged int
	Failed    int
	// Skipped counts requests not started because the batch was canceled.
	Skipped int
}

// Add counts o.
func (s *Summary) Add(o Outcome) {
	switch o.Status {
	case StatusUpdated:
		s.Updated++
	case StatusNoChange:
		s.Unchanged++
	case StatusFailed:
		s.Failed++
	}
}

// Report is the result of a batch.
type Report struct {
	// Run identifies the batch in the journal.
	Run      string
	Actor    string
	Outcomes []Outcome
	Summary  Summary
}
