package collect

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"datagen/internal/annotation"
	"datagen/internal/diagnostic"
	"datagen/internal/match"
	"datagen/internal/model"
	"datagen/internal/naming"
)

// maxGroupDepth bounds group box flattening.
const maxGroupDepth = 16

// Collector gathers member candidates from model containers.
type Collector struct {
	provider model.Provider
	resolver *annotation.Resolver
	config   Config
	logger   *zap.Logger
}

// New creates a Collector. A nil logger discards warnings.
func New(p model.Provider, resolver *annotation.Resolver, config Config, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Collector{
		provider: p,
		resolver: resolver,
		config:   config,
		logger:   logger,
	}
}

// run carries the working state of one collection.
type run struct {
	unit   string
	filter model.KindSet
	list   []Candidate
	byBean map[string]int
	diags  diagnostic.Diagnostics
}

// Collect returns the ordered candidates of container for an artifact kind.
// inherited holds the bean names materialized in the generated super data
// chain; it is nil when there is no super data type yet.
func (c *Collector) Collect(container *model.Type, kind annotation.ArtifactKind, inherited BeanSet) (*Result, error) {
	r := &run{
		unit:   container.QualifiedName(),
		filter: memberFilter(kind),
		byBean: make(map[string]int),
	}

	switch ck := c.provider.KindOf(model.Ref(container.ID)); {
	case ck == model.KindColumn || ck == model.KindValueField:
		self := model.Member{
			Owner:      container.ID,
			Name:       container.ID.Name,
			Type:       model.Ref(container.ID),
			Kind:       ck,
			Annotation: model.Raw{},
		}
		c.add(r, self)

	case ck == model.KindExtension:
		owner, ok := model.ExtensionOwner(c.provider, container)
		if !ok {
			return nil, &diagnostic.ConfigurationError{
				Element: container.QualifiedName(),
				Reason:  "extension does not name the container it wraps",
			}
		}

		inner, err := c.provider.Resolve(owner.ID.String())
		if err != nil {
			return nil, fmt.Errorf("resolving wrapped container of %s: %w", container.ID, err)
		}

		if err := c.collectHierarchy(r, inner, 0); err != nil {
			return nil, err
		}

	default:
		if err := c.collectHierarchy(r, container, 0); err != nil {
			return nil, err
		}
	}

	return &Result{
		Candidates:  finish(r.list, inherited),
		Diagnostics: r.diags,
	}, nil
}

// collectHierarchy visits container's ancestors root-most first, then the
// container itself.
func (c *Collector) collectHierarchy(r *run, container *model.Type, depth int) error {
	supers, err := c.provider.Supertypes(container)
	if err != nil {
		return fmt.Errorf("supertypes of %s: %w", container.ID, err)
	}

	levels := make([]*model.Type, 0, len(supers)+1)
	for i := len(supers) - 1; i >= 0; i-- {
		levels = append(levels, supers[i])
	}
	levels = append(levels, container)

	for _, level := range levels {
		members, err := c.provider.Members(level, r.filter)
		if err != nil {
			return fmt.Errorf("members of %s: %w", level.ID, err)
		}

		for _, m := range members {
			if m.Kind == model.KindGroupBox {
				if err := c.flattenGroup(r, m, depth); err != nil {
					return err
				}

				continue
			}

			c.add(r, m)
		}
	}

	return nil
}

// flattenGroup collects the members of a group box in place of the box.
func (c *Collector) flattenGroup(r *run, m model.Member, depth int) error {
	if depth >= maxGroupDepth {
		return fmt.Errorf("group box nesting at %s exceeds %d levels", m.QualifiedName(), maxGroupDepth)
	}

	box, err := c.provider.Resolve(m.Type.ID.String())
	if err != nil {
		r.diags.AddWarning(diagnostic.CodeUnresolvedValueType,
			fmt.Sprintf("group box type %s not found", m.Type.ID), r.unit, m.Name)

		return nil
	}

	return c.collectHierarchy(r, box, depth+1)
}

// add applies the member's command and Replace semantics to the working list.
func (c *Collector) add(r *run, m model.Member) {
	desc, err := c.resolver.ForMember(m)

	placeholder := false
	if err != nil {
		r.diags.AddWarning(diagnostic.CodeMalformedMemberDescriptor, err.Error(), r.unit, m.Name)
		c.logger.Warn("malformed member descriptor, using placeholder type",
			zap.String("unit", r.unit),
			zap.String("member", m.QualifiedName()),
			zap.Error(err))

		desc = &annotation.Descriptor{Command: annotation.CommandCreate}
		placeholder = true
	}

	cand := Candidate{
		Member:   m,
		BeanName: naming.BeanName(m.SimpleName(), c.config.Suffixes),
		Order:    desc.Order,
		Command:  desc.Command,
		Kind:     m.Kind,
		Position: len(r.list),
	}

	switch {
	case placeholder:
		cand.ValueType = naming.Placeholder()
	case m.Kind == model.KindTable:
		cand.ValueType = m.Type
	default:
		vt, ok := naming.ValueType(c.provider, m.Type, c.config.Holders)
		if !ok {
			r.diags.AddWarning(diagnostic.CodeUnresolvedValueType,
				fmt.Sprintf("value type of %s not resolvable, using %s", m.Type, vt), r.unit, m.Name)
			c.logger.Warn("unresolvable value type, using placeholder",
				zap.String("unit", r.unit),
				zap.String("member", m.QualifiedName()),
				zap.Stringer("placeholder", vt))
		}
		cand.ValueType = vt
	}

	if desc.Replace {
		if idx, ok := c.findReplaced(r, cand); ok {
			anc := r.list[idx]
			replaced := anc.Member.Type

			cand.BeanName = anc.BeanName
			cand.Position = anc.Position
			cand.Order = anc.Order
			cand.Replace = true
			cand.Replaced = &replaced

			r.list[idx] = cand

			return
		}

		msg := fmt.Sprintf("%s replaces no ancestor member, added as new", m.Type.ID)
		if hint := match.Suggest(cand.BeanName, slices.Collect(maps.Keys(r.byBean)), nil, 1); len(hint) > 0 {
			msg += fmt.Sprintf(" (did you mean %q?)", hint[0])
		}

		r.diags.AddInfo(diagnostic.CodeReplaceWithoutAncestor, msg, r.unit, m.Name)
	}

	if _, dup := r.byBean[cand.BeanName]; dup {
		r.diags.AddWarning(diagnostic.CodeDuplicateBeanName,
			fmt.Sprintf("bean name %q already declared, member skipped", cand.BeanName), r.unit, m.Name)

		return
	}

	r.byBean[cand.BeanName] = len(r.list)
	r.list = append(r.list, cand)
}

// findReplaced locates the ancestor candidate a Replace member supersedes:
// the candidate with the same bean name, else the candidate whose member
// type the replacing member's type derives from.
func (c *Collector) findReplaced(r *run, cand Candidate) (int, bool) {
	if idx, ok := r.byBean[cand.BeanName]; ok {
		return idx, true
	}

	chain, err := model.Hierarchy(c.provider, cand.Member.Type)
	if err != nil {
		return 0, false
	}

	for _, sup := range chain {
		for i, existing := range r.list {
			if existing.Member.Type.ID == sup.ID {
				return i, true
			}
		}
	}

	return 0, false
}

// finish drops ignored and inherited candidates and sorts by explicit
// order. Candidates without an order follow the ordered ones; ties keep
// insertion order.
func finish(list []Candidate, inherited BeanSet) []Candidate {
	out := make([]Candidate, 0, len(list))
	for _, cand := range list {
		if cand.Command == annotation.CommandIgnore {
			continue
		}

		if inherited[cand.BeanName] && !cand.keepsNestedUnit() {
			continue
		}

		out = append(out, cand)
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Order != nil && b.Order != nil:
			return cmp.Compare(*a.Order, *b.Order)
		case a.Order != nil:
			return -1
		case b.Order != nil:
			return 1
		default:
			return 0
		}
	})

	return out
}

// keepsNestedUnit reports whether an inherited table candidate must stay
// because its replacement changed the table type: the property is already
// inherited, but the nested row unit has to be regenerated.
func (c Candidate) keepsNestedUnit() bool {
	return c.IsNested() && c.Replace && c.Replaced != nil && c.Replaced.ID != c.Member.Type.ID
}

// Inherited reports whether the candidate's property is materialized in
// the super data chain; such candidates only contribute a nested unit.
func (c Candidate) Inherited(inherited BeanSet) bool {
	return inherited[c.BeanName]
}
