package collect

import (
	"slices"

	"datagen/internal/annotation"
	"datagen/internal/diagnostic"
	"datagen/internal/model"
	"datagen/internal/naming"
)

// Candidate is a member that takes part in generation.
type Candidate struct {
	// Member is the declaring member (the override for replaced members).
	Member model.Member
	// BeanName is the canonical property name.
	BeanName string
	// ValueType is the property's value type; for nested tables it is the
	// table model type itself.
	ValueType model.TypeRef
	// Order is the explicit order, if any.
	Order *float64
	// Command is the effective command.
	Command annotation.Command
	// Replace is true when the candidate superseded an ancestor member.
	Replace bool
	// Replaced is the member type of the superseded ancestor member.
	Replaced *model.TypeRef
	// Kind is the member kind (column, value field or table).
	Kind model.Kind
	// Position is the insertion ordinal before sorting.
	Position int
}

// IsNested reports whether the candidate produces a nested unit.
func (c Candidate) IsNested() bool {
	return c.Kind == model.KindTable
}

// BeanSet is a set of bean names.
type BeanSet map[string]bool

// Add inserts all names.
func (s BeanSet) Add(names ...string) {
	for _, n := range names {
		s[n] = true
	}
}

// Names returns the names in ascending order.
func (s BeanSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}

	slices.Sort(out)

	return out
}

// Config configures bean naming and value type resolution.
type Config struct {
	// Suffixes are stripped from member type names.
	Suffixes []string
	// Holders are the generic value holder roots.
	Holders map[model.TypeID]bool
}

// DefaultConfig returns the configuration matching the datamodel library.
func DefaultConfig() Config {
	return Config{
		Suffixes: naming.DefaultSuffixes,
		Holders:  naming.DefaultHolders(),
	}
}

// Result is the output of a collection run.
type Result struct {
	Candidates  []Candidate
	Diagnostics diagnostic.Diagnostics
}

// BeanNames returns the bean names of all candidates in order.
func (r *Result) BeanNames() []string {
	out := make([]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		out = append(out, c.BeanName)
	}

	return out
}

// memberFilter returns the member kinds collected for an artifact kind.
func memberFilter(kind annotation.ArtifactKind) model.KindSet {
	switch kind {
	case annotation.KindTableRowData:
		return model.Kinds(model.KindColumn)
	case annotation.KindFormData:
		return model.Kinds(model.KindValueField, model.KindTable, model.KindGroupBox)
	case annotation.KindPageData:
		return model.Kinds(model.KindTable)
	default:
		return 0
	}
}
