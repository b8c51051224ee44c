package model

import "strings"

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind classifies a model type by the root it derives from.
type Kind int

const (
	KindUnknown Kind = iota
	KindTable
	KindColumn
	KindForm
	KindValueField
	KindGroupBox
	KindPage
	KindPageWithTable
	KindExtension
)

// ParseKind parses a kind name case-insensitively ("table", "valueField").
func ParseKind(name string) (Kind, bool) {
	for k := KindTable; k <= KindExtension; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}

	return KindUnknown, false
}

// IsContainer reports whether the kind holds members of its own.
func (k Kind) IsContainer() bool {
	switch k {
	case KindTable, KindForm, KindGroupBox, KindPage, KindPageWithTable, KindExtension:
		return true
	default:
		return false
	}
}

// KindSet is a set of kinds used to filter members.
type KindSet uint32

// Kinds builds a KindSet.
func Kinds(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}

	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<uint(k)) != 0
}

// Roots maps root model types to the kind they define.
type Roots map[TypeID]Kind

// DefaultRoots returns the roots of the datamodel runtime library.
func DefaultRoots() Roots {
	root := func(name string) TypeID { return TypeID{PkgPath: DataModelPkg, Name: name} }

	return Roots{
		root("AbstractTable"):         KindTable,
		root("AbstractColumn"):        KindColumn,
		root("AbstractForm"):          KindForm,
		root("AbstractValueField"):    KindValueField,
		root("AbstractGroupBox"):      KindGroupBox,
		root("AbstractPage"):          KindPage,
		root("AbstractPageWithTable"): KindPageWithTable,
		root("AbstractExtension"):     KindExtension,
	}
}

// IsRoot reports whether id is one of the roots.
func (r Roots) IsRoot(id TypeID) bool {
	_, ok := r[id]
	return ok
}
