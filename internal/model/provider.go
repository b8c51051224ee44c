package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a qualified name does not resolve.
var ErrNotFound = errors.New("type not found")

// maxHierarchyDepth bounds supertype walks so cyclic model input cannot hang
// generation.
const maxHierarchyDepth = 64

// Provider gives the generator read access to the type model.
type Provider interface {
	// Resolve returns a snapshot of the named type.
	Resolve(qualifiedName string) (*Type, error)
	// Supertypes returns the model ancestors of t, nearest first. Roots and
	// types unknown to the provider end the chain.
	Supertypes(t *Type) ([]*Type, error)
	// Members returns the members declared directly by t whose kind is in
	// filter, in declaration order, with Kind filled in.
	Members(t *Type, filter KindSet) ([]Member, error)
	// AnnotationOf returns the raw generation annotation of a type or member.
	AnnotationOf(el Element) (Raw, bool)
	// KindOf classifies a type reference by walking to its root.
	KindOf(ref TypeRef) Kind
	// Roots returns the root model types known to the provider.
	Roots() Roots
}

// Hierarchy returns the chain from t's immediate super reference up to the
// first root or unknown type, nearest first. Unlike Supertypes it yields
// references, including the terminating root, so type arguments bound at
// each level stay visible.
func Hierarchy(p Provider, ref TypeRef) ([]TypeRef, error) {
	var chain []TypeRef

	current := ref
	for range maxHierarchyDepth {
		if p.Roots().IsRoot(current.ID) {
			return chain, nil
		}

		t, err := p.Resolve(current.ID.String())
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return chain, nil
			}

			return nil, err
		}

		if t.Super == nil {
			return chain, nil
		}

		chain = append(chain, *t.Super)
		current = *t.Super
	}

	return nil, fmt.Errorf("hierarchy of %s exceeds %d levels", ref.ID, maxHierarchyDepth)
}

// ExtensionOwner returns the container wrapped by an extension type: the
// first type argument bound to the extension root in t's hierarchy.
func ExtensionOwner(p Provider, t *Type) (TypeRef, bool) {
	if t.Super == nil {
		return TypeRef{}, false
	}

	chain, err := Hierarchy(p, Ref(t.ID))
	if err != nil {
		return TypeRef{}, false
	}

	for _, ref := range chain {
		if p.Roots()[ref.ID] == KindExtension && len(ref.Args) > 0 {
			return ref.Args[0], true
		}
	}

	return TypeRef{}, false
}
