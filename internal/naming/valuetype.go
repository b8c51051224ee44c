package naming

import (
	"datagen/internal/common"
	"datagen/internal/model"
)

// maxDepth bounds hierarchy walks.
const maxDepth = 64

// ValueType returns the first type argument bound to one of the generic
// value holders in ref's hierarchy. Type parameters of intermediate generic
// types are substituted on the way up. When nothing is bound, it returns
// the generic "any" placeholder and false.
func ValueType(p model.Provider, ref model.TypeRef, holders map[model.TypeID]bool) (model.TypeRef, bool) {
	current := ref
	for range maxDepth {
		if holders[current.ID] {
			if len(current.Args) == 0 || isTypeParam(current.Args[0]) {
				return Placeholder(), false
			}

			return current.Args[0], true
		}

		t, err := p.Resolve(current.ID.String())
		if err != nil || t.Super == nil {
			return Placeholder(), false
		}

		bindings := make(map[string]model.TypeRef, len(t.TypeParams))
		for i, name := range t.TypeParams {
			if i < len(current.Args) {
				bindings[name] = current.Args[i]
			}
		}

		current = substitute(*t.Super, bindings)
	}

	return Placeholder(), false
}

// Placeholder is the value type substituted for unresolvable members.
func Placeholder() model.TypeRef {
	return model.Builtin(common.AnyTypeStr)
}

// DefaultHolders returns the generic value holders of the datamodel library.
func DefaultHolders() map[model.TypeID]bool {
	return map[model.TypeID]bool{
		{PkgPath: model.DataModelPkg, Name: "AbstractColumn"}:     true,
		{PkgPath: model.DataModelPkg, Name: "AbstractValueField"}: true,
	}
}

// substitute replaces type parameter references in ref by their bindings.
func substitute(ref model.TypeRef, bindings map[string]model.TypeRef) model.TypeRef {
	if ref.ID.PkgPath == "" && len(ref.Args) == 0 {
		if bound, ok := bindings[ref.ID.Name]; ok {
			out := bound.Clone()
			out.Pointer = out.Pointer || ref.Pointer
			out.Slice = out.Slice || ref.Slice

			return out
		}
	}

	out := ref.Clone()
	for i, a := range out.Args {
		out.Args[i] = substitute(a, bindings)
	}

	return out
}

// isTypeParam reports whether ref still names an unbound type parameter.
// Type parameters are single upper-case identifiers without a package path,
// which no predeclared Go type is.
func isTypeParam(ref model.TypeRef) bool {
	if ref.ID.PkgPath != "" || ref.ID.Name == "" {
		return false
	}

	c := ref.ID.Name[0]

	return c >= 'A' && c <= 'Z'
}
