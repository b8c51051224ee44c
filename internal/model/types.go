package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"datagen/internal/common"
)

// DataModelPkg is the import path of the runtime library all model and data
// roots live in.
const DataModelPkg = "datagen/datamodel"

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "datagen/examples/shop"
	Name    string // e.g., "PersonTable"
}

// ParseTypeID parses a qualified name of the form "pkg/path.Name".
func ParseTypeID(qualified string) TypeID {
	pkgPath, name := common.SplitQualified(qualified)
	return TypeID{PkgPath: pkgPath, Name: name}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IsZero reports whether the TypeID is unset.
func (t TypeID) IsZero() bool {
	return t.Name == ""
}

// TypeRef references a type, possibly instantiated with type arguments and
// wrapped as a pointer or slice.
type TypeRef struct {
	ID      TypeID
	Args    []TypeRef
	Pointer bool
	Slice   bool
}

// Ref returns a TypeRef for id instantiated with args.
func Ref(id TypeID, args ...TypeRef) TypeRef {
	return TypeRef{ID: id, Args: args}
}

// Builtin returns a TypeRef for a predeclared type such as "string".
func Builtin(name string) TypeRef {
	return TypeRef{ID: TypeID{Name: name}}
}

// String returns the reference in the form accepted by ParseTypeRef.
func (r TypeRef) String() string {
	var sb strings.Builder
	if r.Slice {
		sb.WriteString("[]")
	}

	if r.Pointer {
		sb.WriteString("*")
	}

	sb.WriteString(r.ID.String())

	if len(r.Args) > 0 {
		sb.WriteString("[")
		for i, a := range r.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteString("]")
	}

	return sb.String()
}

// Clone returns a deep copy of the reference.
func (r TypeRef) Clone() TypeRef {
	out := r
	if r.Args != nil {
		out.Args = make([]TypeRef, len(r.Args))
		for i, a := range r.Args {
			out.Args[i] = a.Clone()
		}
	}

	return out
}

// ParseTypeRef parses references such as "string", "[]*time.Time" or
// "datagen/datamodel.AbstractColumn[string]".
func ParseTypeRef(s string) (TypeRef, error) {
	ref, rest, err := parseTypeRef(strings.TrimSpace(s))
	if err != nil {
		return TypeRef{}, err
	}

	if rest != "" {
		return TypeRef{}, fmt.Errorf("type reference %q: unexpected %q", s, rest)
	}

	return ref, nil
}

func parseTypeRef(s string) (TypeRef, string, error) {
	var ref TypeRef
	if strings.HasPrefix(s, "[]") {
		ref.Slice = true
		s = s[2:]
	}

	if strings.HasPrefix(s, "*") {
		ref.Pointer = true
		s = s[1:]
	}

	end := strings.IndexAny(s, "[],")
	if end < 0 {
		end = len(s)
	}

	name := strings.TrimSpace(s[:end])
	if name == "" {
		return TypeRef{}, "", fmt.Errorf("type reference %q: missing type name", s)
	}

	ref.ID = ParseTypeID(name)
	s = s[end:]

	if !strings.HasPrefix(s, "[") {
		return ref, s, nil
	}

	s = s[1:]
	for {
		arg, rest, err := parseTypeRef(strings.TrimSpace(s))
		if err != nil {
			return TypeRef{}, "", err
		}

		ref.Args = append(ref.Args, arg)
		rest = strings.TrimSpace(rest)

		switch {
		case strings.HasPrefix(rest, ","):
			s = rest[1:]
		case strings.HasPrefix(rest, "]"):
			return ref, rest[1:], nil
		default:
			return TypeRef{}, "", fmt.Errorf("type reference: unterminated type arguments near %q", rest)
		}
	}
}

// Raw holds the raw key/value data of a generation annotation.
type Raw map[string]string

// Has reports whether key is present.
func (r Raw) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Element is anything a raw annotation can be attached to.
type Element interface {
	QualifiedName() string
}

// Type is a model type snapshot: a container (table, form, page), a member
// type (column, value field) or an extension.
type Type struct {
	ID TypeID
	// TypeParams names the type parameters of a generic model type; they
	// appear in Super as TypeRefs with an empty package path.
	TypeParams []string
	// Super is the embedded model super type, nil for types without one.
	Super *TypeRef
	// Abstract mirrors the abstractness of the model container.
	Abstract bool
	// Members are the declared members in declaration order.
	Members []Member
	// Annotation is the raw generation annotation of the type.
	Annotation Raw
}

// QualifiedName implements Element.
func (t *Type) QualifiedName() string {
	return t.ID.String()
}

// Clone returns a deep copy of the type.
func (t *Type) Clone() *Type {
	out := &Type{
		ID:         t.ID,
		TypeParams: slices.Clone(t.TypeParams),
		Abstract:   t.Abstract,
		Annotation: maps.Clone(t.Annotation),
	}

	if t.Super != nil {
		s := t.Super.Clone()
		out.Super = &s
	}

	out.Members = make([]Member, len(t.Members))
	for i, m := range t.Members {
		out.Members[i] = m.Clone()
	}

	return out
}

// Member is a member declared by a container: a column, a value field, a
// nested table or a group box.
type Member struct {
	// Owner is the declaring container.
	Owner TypeID
	// Name is the declared member name.
	Name string
	// Type is the member's model type.
	Type TypeRef
	// Kind is filled in by the provider when members are listed.
	Kind Kind
	// Index is the declaration position inside the owner.
	Index int
	// Annotation is the raw generation annotation of the member.
	Annotation Raw
}

// QualifiedName implements Element.
func (m Member) QualifiedName() string {
	return m.Owner.String() + "#" + m.Name
}

// SimpleName returns the member's declared name, the input of bean name
// derivation. Members sharing a type keep distinct bean names.
func (m Member) SimpleName() string {
	return m.Name
}

// Clone returns a deep copy of the member.
func (m Member) Clone() Member {
	out := m
	out.Type = m.Type.Clone()
	out.Annotation = maps.Clone(m.Annotation)

	return out
}

// SortMembers orders members by declaration index.
func SortMembers(members []Member) {
	slices.SortStableFunc(members, func(a, b Member) int {
		return a.Index - b.Index
	})
}
