package synth

import (
	"datagen/internal/annotation"
	"datagen/internal/collect"
	"datagen/internal/model"
)

// Unit is one generated data type.
type Unit struct {
	// Package is the import path the unit is generated into.
	Package string
	// PkgName is the package clause of the generated file.
	PkgName string
	// TypeName is the name of the generated struct.
	TypeName string
	// Source is the model type the unit mirrors.
	Source model.TypeID
	// Kind is the artifact variant.
	Kind annotation.ArtifactKind
	// Super is the embedded data super type, nil when the unit declares the
	// Serializable marker itself.
	Super *model.TypeRef
	// SuperUnit is the generated unit behind Super, when it is one.
	SuperUnit *Unit
	// Properties are the unit's own properties in generation order.
	Properties []Property
	// Nested are the row units of table members.
	Nested []*Unit
	// Abstract units get no constructor.
	Abstract bool
	// Serializable is set when the unit implements the marker directly.
	Serializable bool
	// Role is the bean name a nested unit was generated for.
	Role string
}

// Property is a single generated bean property.
type Property struct {
	BeanName string
	// Constant is the exported bean-name constant, <Type><Bean>.
	Constant string
	Field    string
	Getter   string
	Setter   string
	Type     model.TypeRef
	// Nested is the row unit of a table property.
	Nested *Unit
	// Member is the qualified name of the declaring model member.
	Member string
}

// ID returns the type ID of the generated struct.
func (u *Unit) ID() model.TypeID {
	return model.TypeID{PkgPath: u.Package, Name: u.TypeName}
}

// BeanNames returns the bean names of the unit's own properties in order.
func (u *Unit) BeanNames() []string {
	out := make([]string, 0, len(u.Properties))
	for _, p := range u.Properties {
		out = append(out, p.BeanName)
	}

	return out
}

// Materialized returns the bean names declared by u and every generated
// unit above it. A nil unit has none.
func (u *Unit) Materialized() collect.BeanSet {
	set := collect.BeanSet{}
	for cur := u; cur != nil; cur = cur.SuperUnit {
		set.Add(cur.BeanNames()...)
	}

	return set
}

// NestedByRole finds the nearest row unit generated for role in u or the
// units above it.
func (u *Unit) NestedByRole(role string) (*Unit, bool) {
	for cur := u; cur != nil; cur = cur.SuperUnit {
		for _, n := range cur.Nested {
			if n.Role == role {
				return n, true
			}
		}
	}

	return nil, false
}

// DefaultSuper returns the datamodel root a unit of kind extends when
// nothing more specific applies.
func DefaultSuper(kind annotation.ArtifactKind) model.TypeID {
	name := "AbstractFormData"

	switch kind {
	case annotation.KindPageData:
		name = "AbstractPageData"
	case annotation.KindTableRowData:
		name = "AbstractTableRowData"
	}

	return model.TypeID{PkgPath: model.DataModelPkg, Name: name}
}
