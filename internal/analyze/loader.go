package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"datagen/internal/model"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go model packages into a registry.
type Analyzer struct {
	dir    string
	roots  model.Roots
	logger *zap.Logger
}

// New creates an Analyzer resolving patterns relative to dir. Nil roots
// select model.DefaultRoots.
func New(dir string, roots model.Roots, logger *zap.Logger) *Analyzer {
	if roots == nil {
		roots = model.DefaultRoots()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{dir: dir, roots: roots, logger: logger}
}

// Load loads the packages matched by patterns and registers their struct
// types. Patterns are standard Go package patterns (e.g. "./models/...",
// "datagen/examples/shop").
func (a *Analyzer) Load(ctx context.Context, patterns ...string) (*model.Registry, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     a.dir,
		Mode:    LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	reg := model.NewRegistry(a.roots)
	for _, pkg := range pkgs {
		if err := a.processPackage(reg, pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return reg, nil
}

// processPackage registers the exported struct types of pkg.
func (a *Analyzer) processPackage(reg *model.Registry, pkg *packages.Package) error {
	docs := typeDocs(pkg.Syntax)

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		t, err := a.structType(pkg.PkgPath, named, st, docs[name])
		if err != nil {
			return fmt.Errorf("type %s: %w", name, err)
		}

		reg.Add(t)
	}

	return nil
}

func (a *Analyzer) structType(pkgPath string, named *types.Named, st *types.Struct, doc *ast.CommentGroup) (*model.Type, error) {
	raw, abstract := directives(doc)

	t := &model.Type{
		ID:         model.TypeID{PkgPath: pkgPath, Name: named.Obj().Name()},
		Annotation: raw,
		Abstract:   abstract,
	}

	for i := range named.TypeParams().Len() {
		t.TypeParams = append(t.TypeParams, named.TypeParams().At(i).Obj().Name())
	}

	for i := range st.NumFields() {
		field := st.Field(i)

		if i == 0 && field.Embedded() {
			super := a.ref(t.ID, field.Type())
			t.Super = &super

			continue
		}

		if !field.Exported() || field.Embedded() {
			continue
		}

		ann, err := memberTags(reflect.StructTag(st.Tag(i)))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name(), err)
		}

		t.Members = append(t.Members, model.Member{
			Name:       field.Name(),
			Type:       a.ref(t.ID, field.Type()),
			Index:      len(t.Members),
			Annotation: ann,
		})
	}

	return t, nil
}

// ref converts a go/types type into a model reference. Shapes the model
// cannot express fall back to any.
func (a *Analyzer) ref(owner model.TypeID, t types.Type) model.TypeRef {
	switch tt := t.(type) {
	case *types.Basic:
		return model.Builtin(tt.Name())

	case *types.TypeParam:
		return model.Builtin(tt.Obj().Name())

	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			return model.Builtin(obj.Name())
		}

		ref := model.Ref(model.TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()})
		for i := range tt.TypeArgs().Len() {
			ref.Args = append(ref.Args, a.ref(owner, tt.TypeArgs().At(i)))
		}

		return ref

	case *types.Alias:
		return a.ref(owner, types.Unalias(tt))

	case *types.Pointer:
		ref := a.ref(owner, tt.Elem())
		if !ref.Pointer && !ref.Slice {
			ref.Pointer = true
			return ref
		}

	case *types.Slice:
		ref := a.ref(owner, tt.Elem())
		if !ref.Slice {
			ref.Slice = true
			return ref
		}

	case *types.Interface:
		if tt.Empty() {
			return model.Builtin("any")
		}
	}

	a.logger.Warn("unsupported type shape, using any",
		zap.String("type", owner.String()),
		zap.String("shape", t.String()))

	return model.Builtin("any")
}

// typeDocs maps type names to their doc comments. A lone spec in a type
// declaration inherits the declaration's comment.
func typeDocs(files []*ast.File) map[string]*ast.CommentGroup {
	docs := make(map[string]*ast.CommentGroup)

	for _, f := range files {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				if doc != nil {
					docs[ts.Name.Name] = doc
				}
			}
		}
	}

	return docs
}

// Dirs returns the source directories of the packages matched by patterns,
// sorted and without duplicates.
func (a *Analyzer) Dirs(ctx context.Context, patterns ...string) ([]string, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     a.dir,
		Mode:    packages.NeedName | packages.NeedFiles,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var dirs []string
	for _, pkg := range pkgs {
		for _, f := range pkg.GoFiles {
			dirs = append(dirs, filepath.Dir(f))
		}
	}

	slices.Sort(dirs)

	return slices.Compact(dirs), nil
}
