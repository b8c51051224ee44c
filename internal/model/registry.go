package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Registry is an in-memory Provider.
type Registry struct {
	types map[TypeID]*Type
	roots Roots
}

// NewRegistry creates an empty registry with the given roots. A nil roots
// map selects DefaultRoots.
func NewRegistry(roots Roots) *Registry {
	if roots == nil {
		roots = DefaultRoots()
	}

	return &Registry{
		types: make(map[TypeID]*Type),
		roots: roots,
	}
}

// Add registers t, replacing any previous type with the same ID. Member
// owners are set to t.ID.
func (r *Registry) Add(t *Type) {
	c := t.Clone()
	for i := range c.Members {
		c.Members[i].Owner = c.ID
	}

	r.types[c.ID] = c
}

// Lookup returns a snapshot of the type registered under id.
func (r *Registry) Lookup(id TypeID) (*Type, bool) {
	t, ok := r.types[id]
	if !ok {
		return nil, false
	}

	return t.Clone(), true
}

// Types returns snapshots of all registered types ordered by qualified name.
func (r *Registry) Types() []*Type {
	ids := slices.SortedFunc(maps.Keys(r.types), func(a, b TypeID) int {
		return strings.Compare(a.String(), b.String())
	})

	out := make([]*Type, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.types[id].Clone())
	}

	return out
}

// Annotated returns the registered types carrying a generation annotation.
func (r *Registry) Annotated() []*Type {
	var out []*Type
	for _, t := range r.Types() {
		if len(t.Annotation) > 0 {
			out = append(out, t)
		}
	}

	return out
}

// Resolve implements Provider.
func (r *Registry) Resolve(qualifiedName string) (*Type, error) {
	t, ok := r.Lookup(ParseTypeID(qualifiedName))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, qualifiedName)
	}

	return t, nil
}

// Supertypes implements Provider.
func (r *Registry) Supertypes(t *Type) ([]*Type, error) {
	var out []*Type

	seen := map[TypeID]bool{t.ID: true}
	current := t
	for current.Super != nil {
		id := current.Super.ID
		if r.roots.IsRoot(id) {
			break
		}

		if seen[id] {
			return nil, fmt.Errorf("cyclic supertype chain at %s", id)
		}
		seen[id] = true

		next, ok := r.Lookup(id)
		if !ok {
			break
		}

		out = append(out, next)
		current = next
	}

	return out, nil
}

// Members implements Provider.
func (r *Registry) Members(t *Type, filter KindSet) ([]Member, error) {
	var out []Member
	for _, m := range t.Members {
		m = m.Clone()
		m.Kind = r.KindOf(m.Type)

		if filter.Has(m.Kind) {
			out = append(out, m)
		}
	}

	SortMembers(out)

	return out, nil
}

// AnnotationOf implements Provider.
func (r *Registry) AnnotationOf(el Element) (Raw, bool) {
	switch e := el.(type) {
	case *Type:
		if stored, ok := r.types[e.ID]; ok {
			return maps.Clone(stored.Annotation), len(stored.Annotation) > 0
		}

		return maps.Clone(e.Annotation), len(e.Annotation) > 0
	case Member:
		if owner, ok := r.types[e.Owner]; ok {
			for _, m := range owner.Members {
				if m.Name == e.Name {
					return maps.Clone(m.Annotation), len(m.Annotation) > 0
				}
			}
		}

		return maps.Clone(e.Annotation), len(e.Annotation) > 0
	default:
		return nil, false
	}
}

// KindOf implements Provider.
func (r *Registry) KindOf(ref TypeRef) Kind {
	id := ref.ID
	for range maxHierarchyDepth {
		if k, ok := r.roots[id]; ok {
			return k
		}

		t, ok := r.types[id]
		if !ok || t.Super == nil {
			return KindUnknown
		}

		id = t.Super.ID
	}

	return KindUnknown
}

// Roots implements Provider.
func (r *Registry) Roots() Roots {
	return r.roots
}
