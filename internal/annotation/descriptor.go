package annotation

import (
	"fmt"
	"strconv"
	"strings"

	"datagen/internal/diagnostic"
	"datagen/internal/model"
)

// Raw annotation keys.
const (
	KeyValue          = "value"
	KeySuper          = "super"
	KeyKind           = "kind"
	KeyCommand        = "command"
	KeySubtypeCommand = "subtypeCommand"
	KeyReplace        = "replace"
	KeyOrder          = "order"
	KeyAbstract       = "abstract"
)

// Descriptor is the structured form of a generation annotation.
type Descriptor struct {
	// Target is the data type generated for the element (types only).
	Target model.TypeID
	// Super overrides the resolved data super type (types only).
	Super *model.TypeID
	// Kind selects the artifact variant (types only).
	Kind ArtifactKind
	// Command is the effective command; never CommandDefault after resolution.
	Command Command
	// SubtypeCommand is the default for members whose types derive from the
	// annotated type.
	SubtypeCommand Command
	// Replace marks a member that supersedes an ancestor member.
	Replace bool
	// Order is the explicit ordering value, if any.
	Order *float64
	// Abstract forces abstractness of the generated unit.
	Abstract bool
}

// Resolver turns raw annotations into descriptors.
type Resolver struct {
	provider model.Provider
}

// NewResolver creates a Resolver reading annotations from p.
func NewResolver(p model.Provider) *Resolver {
	return &Resolver{provider: p}
}

// ForType resolves the descriptor of a model type. A nil descriptor means
// the type is not a generation root.
func (r *Resolver) ForType(t *model.Type) (*Descriptor, error) {
	raw, ok := r.provider.AnnotationOf(t)
	if !ok {
		return nil, nil
	}

	d, err := parse(t.QualifiedName(), raw)
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(raw[KeyValue])
	if target == "" {
		return nil, &diagnostic.ConfigurationError{
			Element: t.QualifiedName(),
			Field:   KeyValue,
			Reason:  "missing target data type",
		}
	}
	d.Target = model.ParseTypeID(target)

	if s := strings.TrimSpace(raw[KeySuper]); s != "" {
		id := model.ParseTypeID(s)
		d.Super = &id
	}

	if k, has := raw[KeyKind]; has {
		kind, err := ParseArtifactKind(k)
		if err != nil {
			return nil, configErr(t.QualifiedName(), KeyKind, err)
		}
		d.Kind = kind
	} else {
		d.Kind = r.inferKind(t)
		if d.Kind == KindUnset {
			return nil, &diagnostic.ConfigurationError{
				Element: t.QualifiedName(),
				Field:   KeyKind,
				Reason:  "cannot infer artifact kind",
			}
		}
	}

	d.Abstract = d.Abstract || t.Abstract
	if d.Command == CommandDefault {
		d.Command = CommandCreate
	}

	return d, nil
}

// ForMember resolves the effective descriptor of a container member. The
// command falls back from the member annotation to the member type's own
// annotation, then to the nearest SubtypeCommand declared in the member
// type's hierarchy, then to CREATE.
func (r *Resolver) ForMember(m model.Member) (*Descriptor, error) {
	raw, _ := r.provider.AnnotationOf(m)

	d, err := parse(m.QualifiedName(), raw)
	if err != nil {
		return nil, err
	}

	memberType, err := r.provider.Resolve(m.Type.ID.String())
	if err != nil {
		memberType = nil
	}

	if memberType != nil {
		typeRaw, _ := r.provider.AnnotationOf(memberType)
		td, err := parse(memberType.QualifiedName(), typeRaw)
		if err != nil {
			return nil, err
		}

		if d.Command == CommandDefault {
			d.Command = td.Command
		}

		if !raw.Has(KeyReplace) {
			d.Replace = td.Replace
		}

		if d.Order == nil {
			d.Order = td.Order
		}
	}

	if d.Command == CommandDefault {
		d.Command = r.inheritedCommand(m.Type)
	}

	return d, nil
}

// inheritedCommand walks the member type's ancestors for a SubtypeCommand.
func (r *Resolver) inheritedCommand(ref model.TypeRef) Command {
	chain, err := model.Hierarchy(r.provider, ref)
	if err != nil {
		return CommandCreate
	}

	for _, sup := range chain {
		t, err := r.provider.Resolve(sup.ID.String())
		if err != nil {
			continue
		}

		raw, _ := r.provider.AnnotationOf(t)
		if c, err := ParseCommand(raw[KeySubtypeCommand]); err == nil && c != CommandDefault {
			return c
		}
	}

	return CommandCreate
}

// inferKind derives the artifact kind from the model kind of t.
func (r *Resolver) inferKind(t *model.Type) ArtifactKind {
	switch r.provider.KindOf(model.Ref(t.ID)) {
	case model.KindTable, model.KindColumn:
		return KindTableRowData
	case model.KindForm, model.KindValueField, model.KindGroupBox:
		return KindFormData
	case model.KindPage, model.KindPageWithTable:
		return KindPageData
	case model.KindExtension:
		if owner, ok := model.ExtensionOwner(r.provider, t); ok {
			if inner, err := r.provider.Resolve(owner.ID.String()); err == nil {
				return r.inferKind(inner)
			}
		}

		return KindUnset
	default:
		return KindUnset
	}
}

// parse reads the keys shared by type and member annotations.
func parse(element string, raw model.Raw) (*Descriptor, error) {
	d := &Descriptor{}

	var err error
	if d.Command, err = ParseCommand(raw[KeyCommand]); err != nil {
		return nil, configErr(element, KeyCommand, err)
	}

	if d.SubtypeCommand, err = ParseCommand(raw[KeySubtypeCommand]); err != nil {
		return nil, configErr(element, KeySubtypeCommand, err)
	}

	if d.Replace, err = parseFlag(raw, KeyReplace); err != nil {
		return nil, configErr(element, KeyReplace, err)
	}

	if d.Abstract, err = parseFlag(raw, KeyAbstract); err != nil {
		return nil, configErr(element, KeyAbstract, err)
	}

	if s, ok := raw[KeyOrder]; ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, configErr(element, KeyOrder, fmt.Errorf("invalid order %q", s))
		}
		d.Order = &v
	}

	return d, nil
}

// parseFlag treats a present key with an empty value as true.
func parseFlag(raw model.Raw, key string) (bool, error) {
	s, ok := raw[key]
	if !ok {
		return false, nil
	}

	if strings.TrimSpace(s) == "" {
		return true, nil
	}

	return strconv.ParseBool(strings.TrimSpace(s))
}

func configErr(element, field string, err error) error {
	return &diagnostic.ConfigurationError{Element: element, Field: field, Reason: err.Error()}
}
