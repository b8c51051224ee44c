package synth

import (
	"fmt"

	"go.uber.org/zap"

	"datagen/internal/annotation"
	"datagen/internal/collect"
	"datagen/internal/common"
	"datagen/internal/diagnostic"
	"datagen/internal/model"
	"datagen/internal/naming"
)

// rowDataSuffix names nested row units: <Type><Bean>RowData.
const rowDataSuffix = "RowData"

// Synthesizer builds units for annotated model types.
type Synthesizer struct {
	provider  model.Provider
	resolver  *annotation.Resolver
	collector *collect.Collector
	logger    *zap.Logger
}

// New creates a Synthesizer. A nil logger discards output.
func New(p model.Provider, config collect.Config, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}

	resolver := annotation.NewResolver(p)

	return &Synthesizer{
		provider:  p,
		resolver:  resolver,
		collector: collect.New(p, resolver, config, logger),
		logger:    logger,
	}
}

// Resolver returns the annotation resolver the synthesizer uses.
func (s *Synthesizer) Resolver() *annotation.Resolver {
	return s.resolver
}

// build is the state of a single Build call. Units of annotated ancestors
// are built on demand and shared within the call only.
type build struct {
	s      *Synthesizer
	units  map[model.TypeID]*Unit
	active map[model.TypeID]bool
	diags  diagnostic.Diagnostics
	// given replaces the resolved descriptor of the requested container.
	given map[model.TypeID]*annotation.Descriptor
}

// Build derives the unit of an annotated model container. Units of
// annotated model ancestors are built along the way so the bean names they
// materialize and their row units are known.
func (s *Synthesizer) Build(container *model.Type) (*Unit, diagnostic.Diagnostics, error) {
	return s.BuildWith(container, nil)
}

// BuildWith is Build with a pre-resolved descriptor for container. A nil
// descriptor is resolved from the model.
func (s *Synthesizer) BuildWith(container *model.Type, desc *annotation.Descriptor) (*Unit, diagnostic.Diagnostics, error) {
	b := &build{
		s:      s,
		units:  make(map[model.TypeID]*Unit),
		active: make(map[model.TypeID]bool),
		given:  make(map[model.TypeID]*annotation.Descriptor),
	}

	if desc != nil {
		b.given[container.ID] = desc
	}

	u, err := b.unit(container)

	return u, b.diags, err
}

func (b *build) descriptor(t *model.Type) (*annotation.Descriptor, error) {
	if d, ok := b.given[t.ID]; ok {
		return d, nil
	}

	return b.s.resolver.ForType(t)
}

func (b *build) unit(t *model.Type) (*Unit, error) {
	if u, ok := b.units[t.ID]; ok {
		return u, nil
	}

	if b.active[t.ID] {
		return nil, &diagnostic.ConfigurationError{
			Element: t.QualifiedName(),
			Reason:  "data super type chain is cyclic",
		}
	}

	b.active[t.ID] = true
	defer delete(b.active, t.ID)

	desc, err := b.descriptor(t)
	if err != nil {
		return nil, err
	}

	if desc == nil {
		return nil, &diagnostic.ConfigurationError{
			Element: t.QualifiedName(),
			Field:   annotation.KeyValue,
			Reason:  "type is not annotated for data generation",
		}
	}

	if desc.Target == t.ID {
		return nil, &diagnostic.ConfigurationError{
			Element: t.QualifiedName(),
			Field:   annotation.KeyValue,
			Reason:  "data type refers to its own model type",
		}
	}

	u := &Unit{
		Package:  desc.Target.PkgPath,
		PkgName:  common.PkgName(desc.Target.PkgPath),
		TypeName: desc.Target.Name,
		Source:   t.ID,
		Kind:     desc.Kind,
		Abstract: desc.Abstract,
	}

	extension := b.s.provider.KindOf(model.Ref(t.ID)) == model.KindExtension

	if err := b.resolveSuper(u, t, desc, extension); err != nil {
		return nil, err
	}

	var inherited collect.BeanSet
	if u.SuperUnit != nil {
		inherited = u.SuperUnit.Materialized()
	}

	res, err := b.s.collector.Collect(t, desc.Kind, inherited)
	if err != nil {
		return nil, err
	}
	b.diags.Merge(res.Diagnostics)

	for _, cand := range res.Candidates {
		if !cand.IsNested() {
			u.Properties = append(u.Properties, property(u, cand, cand.ValueType, nil))
			continue
		}

		row, err := b.rowUnit(u, cand, extension)
		if err != nil {
			return nil, err
		}
		u.Nested = append(u.Nested, row)

		if cand.Inherited(inherited) {
			continue
		}

		rows := model.TypeRef{ID: row.ID(), Pointer: true, Slice: true}
		u.Properties = append(u.Properties, property(u, cand, rows, row))
	}

	b.units[t.ID] = u

	b.s.logger.Debug("built unit",
		zap.Stringer("model", t.ID),
		zap.Stringer("unit", u.ID()),
		zap.Strings("properties", u.BeanNames()),
		zap.Int("nested", len(u.Nested)))

	return u, nil
}

// resolveSuper picks the data super type of a top-level unit: an explicit
// super wins, extensions get none, direct descendants of a model root get
// the default root, otherwise the nearest annotated model ancestor's unit.
func (b *build) resolveSuper(u *Unit, t *model.Type, desc *annotation.Descriptor, extension bool) error {
	if desc.Super != nil {
		ref := model.Ref(*desc.Super)
		u.Super = &ref

		anc, err := b.ancestorWithTarget(t, *desc.Super)
		if err != nil {
			return err
		}

		if anc != nil {
			su, err := b.unit(anc)
			if err != nil {
				return fmt.Errorf("building super unit of %s: %w", t.ID, err)
			}
			u.SuperUnit = su

			return nil
		}

		if desc.Super.PkgPath != model.DataModelPkg {
			b.diags.AddWarning(diagnostic.CodeAmbiguousSuperUnit,
				fmt.Sprintf("super type %s is not generated from a model ancestor, its properties are unknown", desc.Super),
				t.QualifiedName(), "")
		}

		return nil
	}

	if extension {
		u.Serializable = true
		return nil
	}

	if t.Super == nil || b.s.provider.Roots().IsRoot(t.Super.ID) {
		ref := model.Ref(DefaultSuper(desc.Kind))
		u.Super = &ref

		return nil
	}

	supers, err := b.s.provider.Supertypes(t)
	if err != nil {
		return fmt.Errorf("supertypes of %s: %w", t.ID, err)
	}

	for _, anc := range supers {
		d, err := b.s.resolver.ForType(anc)
		if err != nil {
			return fmt.Errorf("ancestor %s: %w", anc.ID, err)
		}

		if d == nil {
			continue
		}

		su, err := b.unit(anc)
		if err != nil {
			return fmt.Errorf("building super unit of %s: %w", t.ID, err)
		}

		if su.ID() == u.ID() {
			return &diagnostic.ConfigurationError{
				Element: t.QualifiedName(),
				Field:   annotation.KeyValue,
				Reason:  fmt.Sprintf("data type %s is also generated by ancestor %s", u.ID(), anc.ID),
			}
		}

		ref := model.Ref(su.ID())
		u.Super = &ref
		u.SuperUnit = su

		return nil
	}

	ref := model.Ref(DefaultSuper(desc.Kind))
	u.Super = &ref

	return nil
}

// ancestorWithTarget finds the model ancestor whose descriptor generates
// target.
func (b *build) ancestorWithTarget(t *model.Type, target model.TypeID) (*model.Type, error) {
	supers, err := b.s.provider.Supertypes(t)
	if err != nil {
		return nil, fmt.Errorf("supertypes of %s: %w", t.ID, err)
	}

	for _, anc := range supers {
		d, err := b.s.resolver.ForType(anc)
		if err != nil {
			return nil, fmt.Errorf("ancestor %s: %w", anc.ID, err)
		}

		if d != nil && d.Target == target {
			return anc, nil
		}
	}

	return nil, nil
}

// rowUnit builds the nested row unit of a table candidate. Its super type
// is none inside extensions, the default row root for tables extending the
// table root directly, else the row unit generated for the same bean name
// in the parent's super chain.
func (b *build) rowUnit(parent *Unit, cand collect.Candidate, extension bool) (*Unit, error) {
	table, err := b.s.provider.Resolve(cand.ValueType.ID.String())
	if err != nil {
		return nil, fmt.Errorf("table type of %s: %w", cand.Member.QualifiedName(), err)
	}

	row := &Unit{
		Package:  parent.Package,
		PkgName:  parent.PkgName,
		TypeName: parent.TypeName + naming.Capitalize(cand.BeanName) + rowDataSuffix,
		Source:   table.ID,
		Kind:     annotation.KindTableRowData,
		Abstract: table.Abstract,
		Role:     cand.BeanName,
	}

	switch {
	case extension:
		row.Serializable = true
	case table.Super == nil || b.s.provider.Roots().IsRoot(table.Super.ID):
		ref := model.Ref(DefaultSuper(annotation.KindTableRowData))
		row.Super = &ref
	default:
		if su, ok := parent.SuperUnit.NestedByRole(cand.BeanName); ok {
			ref := model.Ref(su.ID())
			row.Super = &ref
			row.SuperUnit = su

			break
		}

		ref := model.Ref(DefaultSuper(annotation.KindTableRowData))
		row.Super = &ref
		b.diags.AddWarning(diagnostic.CodeDefaultRowSuper,
			fmt.Sprintf("no inherited row data for %q, using %s", cand.BeanName, ref.ID),
			parent.Source.String(), cand.Member.Name)
	}

	res, err := b.s.collector.Collect(table, annotation.KindTableRowData, row.SuperUnit.Materialized())
	if err != nil {
		return nil, err
	}
	b.diags.Merge(res.Diagnostics)

	for _, c := range res.Candidates {
		row.Properties = append(row.Properties, property(row, c, c.ValueType, nil))
	}

	return row, nil
}

func property(u *Unit, cand collect.Candidate, typ model.TypeRef, nested *Unit) Property {
	exported := naming.Capitalize(cand.BeanName)

	return Property{
		BeanName: cand.BeanName,
		Constant: u.TypeName + exported,
		Field:    naming.FieldIdent(cand.BeanName),
		Getter:   exported,
		Setter:   "Set" + exported,
		Type:     typ,
		Nested:   nested,
		Member:   cand.Member.QualifiedName(),
	}
}
