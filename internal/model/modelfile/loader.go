package modelfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"datagen/internal/model"
)

// predeclared lists the Go types that need no package.
var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "complex64": true, "complex128": true,
	"error": true, "float32": true, "float64": true, "int": true, "int8": true,
	"int16": true, "int32": true, "int64": true, "rune": true, "string": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true,
}

// LoadFile loads and parses a YAML model file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse model YAML: %w", err)
	}

	if f.Package == "" {
		return nil, fmt.Errorf("model file: package is required")
	}

	return &f, nil
}

// Load reads model files into a new registry.
func Load(paths ...string) (*model.Registry, error) {
	reg := model.NewRegistry(nil)

	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return nil, err
		}

		if err := f.AddTo(reg); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	return reg, nil
}

// AddTo registers the declared types in reg.
func (f *File) AddTo(reg *model.Registry) error {
	declared := make(map[string]bool, len(f.Types))
	for _, ts := range f.Types {
		if ts.Name == "" {
			return fmt.Errorf("type without name")
		}

		if declared[ts.Name] {
			return fmt.Errorf("type %s declared twice", ts.Name)
		}
		declared[ts.Name] = true
	}

	r := resolver{pkg: f.Package, declared: declared}

	for _, ts := range f.Types {
		t, err := r.typeOf(ts)
		if err != nil {
			return fmt.Errorf("type %s: %w", ts.Name, err)
		}

		reg.Add(t)
	}

	return nil
}

type resolver struct {
	pkg      string
	declared map[string]bool
}

func (r resolver) typeOf(ts TypeSpec) (*model.Type, error) {
	t := &model.Type{
		ID:         model.TypeID{PkgPath: r.pkg, Name: ts.Name},
		TypeParams: ts.TypeParams,
		Abstract:   ts.Abstract,
		Annotation: raw(ts.Annotation),
	}

	params := make(map[string]bool, len(ts.TypeParams))
	for _, p := range ts.TypeParams {
		params[p] = true
	}

	if ts.Super != "" {
		super, err := r.ref(ts.Super, params)
		if err != nil {
			return nil, fmt.Errorf("super: %w", err)
		}
		t.Super = &super
	}

	for i, ms := range ts.Members {
		if ms.Name == "" || ms.Type == "" {
			return nil, fmt.Errorf("member %d needs a name and a type", i)
		}

		ref, err := r.ref(ms.Type, params)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", ms.Name, err)
		}

		t.Members = append(t.Members, model.Member{
			Name:       ms.Name,
			Type:       ref,
			Index:      i,
			Annotation: raw(ms.Annotation),
		})
	}

	return t, nil
}

// ref parses s and qualifies its unqualified names.
func (r resolver) ref(s string, params map[string]bool) (model.TypeRef, error) {
	ref, err := model.ParseTypeRef(s)
	if err != nil {
		return model.TypeRef{}, err
	}

	return r.qualify(ref, params), nil
}

func (r resolver) qualify(ref model.TypeRef, params map[string]bool) model.TypeRef {
	if ref.ID.PkgPath == "" {
		name := ref.ID.Name

		switch {
		case predeclared[name], params[name]:
		case r.declared[name]:
			ref.ID.PkgPath = r.pkg
		case strings.HasPrefix(name, "Abstract"):
			ref.ID.PkgPath = model.DataModelPkg
		default:
			ref.ID.PkgPath = r.pkg
		}
	}

	for i, a := range ref.Args {
		ref.Args[i] = r.qualify(a, params)
	}

	return ref
}

// raw converts YAML scalars to annotation strings. A key without a value
// becomes an empty string, which flags read as true.
func raw(m map[string]any) model.Raw {
	if m == nil {
		return nil
	}

	out := make(model.Raw, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = x
		case bool:
			out[k] = strconv.FormatBool(x)
		case float64:
			out[k] = strconv.FormatFloat(x, 'g', -1, 64)
		default:
			out[k] = fmt.Sprint(x)
		}
	}

	return out
}
