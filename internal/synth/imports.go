package synth

import (
	"strconv"
	"strings"

	"datagen/internal/common"
	"datagen/internal/model"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// importSet assigns import names to the packages referenced by a file.
// Names are assigned in path order so the result does not depend on the
// order types were recorded in.
type importSet struct {
	self  string
	names map[string]string
}

func newImportSet(self string) *importSet {
	return &importSet{self: self, names: make(map[string]string)}
}

// use records every package referenced by ref.
func (s *importSet) use(ref model.TypeRef) {
	if p := ref.ID.PkgPath; p != "" && p != s.self {
		s.names[p] = ""
	}

	for _, a := range ref.Args {
		s.use(a)
	}
}

// assign picks a unique name per path. Colliding names get a numeric
// suffix.
func (s *importSet) assign() {
	taken := make(map[string]bool)
	for _, p := range common.SortedKeys(s.names) {
		name := common.PkgName(p)
		for i := 2; taken[name]; i++ {
			name = common.PkgName(p) + strconv.Itoa(i)
		}

		taken[name] = true
		s.names[p] = name
	}
}

// typeString renders ref with the assigned package names.
func (s *importSet) typeString(ref model.TypeRef) string {
	var sb strings.Builder
	if ref.Slice {
		sb.WriteString("[]")
	}

	if ref.Pointer {
		sb.WriteString("*")
	}

	if name := s.names[ref.ID.PkgPath]; name != "" {
		sb.WriteString(name)
		sb.WriteString(".")
	}

	sb.WriteString(ref.ID.Name)

	if len(ref.Args) > 0 {
		sb.WriteString("[")
		for i, a := range ref.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.typeString(a))
		}
		sb.WriteString("]")
	}

	return sb.String()
}

// groups returns the imports split the way goimports groups them: paths
// without a dot first, then the rest, each sorted by path. An alias is
// written only where the name differs from the last path element.
func (s *importSet) groups() (std, other []importSpec) {
	for _, p := range common.SortedKeys(s.names) {
		spec := importSpec{Path: p}
		if name := s.names[p]; name != common.PkgAlias(p) {
			spec.Alias = name
		}

		if strings.Contains(p, ".") {
			other = append(other, spec)
		} else {
			std = append(std, spec)
		}
	}

	return std, other
}
