package collect

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"datagen/internal/annotation"
	"datagen/internal/diagnostic"
	"datagen/internal/model"
)

const shop = "example/shop"

func id(name string) model.TypeID {
	return model.TypeID{PkgPath: shop, Name: name}
}

func ref(name string) *model.TypeRef {
	r := model.Ref(id(name))
	return &r
}

func root(name string, args ...model.TypeRef) *model.TypeRef {
	r := model.Ref(model.TypeID{PkgPath: model.DataModelPkg, Name: name}, args...)
	return &r
}

func column(name string, value model.TypeRef) *model.Type {
	return &model.Type{ID: id(name), Super: root("AbstractColumn", value)}
}

func member(name, typeName string, index int, raw model.Raw) model.Member {
	return model.Member{Name: name, Type: model.Ref(id(typeName)), Index: index, Annotation: raw}
}

var (
	stringRef = model.Builtin("string")
	dateRef   = model.Ref(model.TypeID{PkgPath: "time", Name: "Time"})
)

// shopModel builds:
//
//	BaseTable:    Name(order 10), Date(order 20), Secret(ignore)
//	PersonTable:  extends BaseTable; Age(order 15), Replace Name -> NickName
//	HiddenTable:  extends BaseTable; Replace+ignore Name
//	LeafTable:    extends PersonTable; no members
func shopModel() *model.Registry {
	reg := model.NewRegistry(nil)
	reg.Add(column("NameColumn", stringRef))
	reg.Add(&model.Type{ID: id("NickNameColumn"), Super: ref("NameColumn")})
	reg.Add(column("DateColumn", dateRef))
	reg.Add(column("SecretColumn", stringRef))
	reg.Add(column("AgeColumn", model.Builtin("int")))

	reg.Add(&model.Type{ID: id("BaseTable"), Super: root("AbstractTable"), Members: []model.Member{
		member("Name", "NameColumn", 0, model.Raw{"order": "10"}),
		member("Date", "DateColumn", 1, model.Raw{"order": "20"}),
		member("Secret", "SecretColumn", 2, model.Raw{"command": "ignore"}),
	}})
	reg.Add(&model.Type{ID: id("PersonTable"), Super: ref("BaseTable"), Members: []model.Member{
		member("Age", "AgeColumn", 0, model.Raw{"order": "15"}),
		member("Nick", "NickNameColumn", 1, model.Raw{"replace": "", "order": "99"}),
	}})
	reg.Add(&model.Type{ID: id("HiddenTable"), Super: ref("BaseTable"), Members: []model.Member{
		member("Name", "NameColumn", 0, model.Raw{"replace": "", "command": "ignore"}),
	}})
	reg.Add(&model.Type{ID: id("LeafTable"), Super: ref("PersonTable")})

	return reg
}

func newCollector(reg *model.Registry, logger *zap.Logger) *Collector {
	return New(reg, annotation.NewResolver(reg), DefaultConfig(), logger)
}

func collect(t *testing.T, reg *model.Registry, name string, kind annotation.ArtifactKind, inherited BeanSet) *Result {
	t.Helper()

	container, ok := reg.Lookup(id(name))
	require.True(t, ok, name)

	res, err := newCollector(reg, nil).Collect(container, kind, inherited)
	require.NoError(t, err)

	return res
}

func TestCollect_OrdersByExplicitOrder(t *testing.T) {
	reg := model.NewRegistry(nil)
	reg.Add(column("NameColumn", stringRef))
	reg.Add(column("DateColumn", dateRef))
	reg.Add(&model.Type{ID: id("SimpleTable"), Super: root("AbstractTable"), Members: []model.Member{
		member("Date", "DateColumn", 0, model.Raw{"order": "20"}),
		member("Name", "NameColumn", 1, model.Raw{"order": "10"}),
	}})

	res := collect(t, reg, "SimpleTable", annotation.KindTableRowData, nil)

	assert.Equal(t, []string{"name", "date"}, res.BeanNames(), spew.Sdump(res.Candidates))
	assert.Equal(t, "string", res.Candidates[0].ValueType.String())
	assert.Equal(t, "time.Time", res.Candidates[1].ValueType.String())
	assert.Empty(t, res.Diagnostics.Warnings)
}

func TestCollect_UnorderedFollowOrderedStably(t *testing.T) {
	reg := model.NewRegistry(nil)
	for _, n := range []string{"AColumn", "BColumn", "CColumn", "DColumn"} {
		reg.Add(column(n, stringRef))
	}
	reg.Add(&model.Type{ID: id("T"), Super: root("AbstractTable"), Members: []model.Member{
		member("A", "AColumn", 0, nil),
		member("B", "BColumn", 1, model.Raw{"order": "5"}),
		member("C", "CColumn", 2, nil),
		member("D", "DColumn", 3, model.Raw{"order": "5"}),
	}})

	res := collect(t, reg, "T", annotation.KindTableRowData, nil)
	assert.Equal(t, []string{"b", "d", "a", "c"}, res.BeanNames())
}

func TestCollect_ReplaceKeepsAncestorPosition(t *testing.T) {
	res := collect(t, shopModel(), "PersonTable", annotation.KindTableRowData, nil)

	require.Equal(t, []string{"name", "age", "date"}, res.BeanNames(), spew.Sdump(res.Candidates))

	name := res.Candidates[0]
	assert.True(t, name.Replace)
	assert.Equal(t, id("NickNameColumn"), name.Member.Type.ID)
	assert.Equal(t, id("NameColumn"), name.Replaced.ID)
	require.NotNil(t, name.Order)
	assert.InDelta(t, 10.0, *name.Order, 0)
	assert.Equal(t, 0, name.Position)

	count := 0
	for _, c := range res.Candidates {
		if c.BeanName == "name" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCollect_IgnoreIsTransitive(t *testing.T) {
	for _, name := range []string{"BaseTable", "PersonTable", "LeafTable"} {
		res := collect(t, shopModel(), name, annotation.KindTableRowData, nil)
		assert.NotContains(t, res.BeanNames(), "secret", name)
	}
}

func TestCollect_ReplaceWithIgnoreRemovesMember(t *testing.T) {
	reg := shopModel()

	base := collect(t, reg, "BaseTable", annotation.KindTableRowData, nil)
	assert.Contains(t, base.BeanNames(), "name")

	hidden := collect(t, reg, "HiddenTable", annotation.KindTableRowData, nil)
	assert.Equal(t, []string{"date"}, hidden.BeanNames())
}

func TestCollect_DropsMaterializedBeanNames(t *testing.T) {
	inherited := BeanSet{}
	inherited.Add("name", "date")

	res := collect(t, shopModel(), "PersonTable", annotation.KindTableRowData, inherited)
	assert.Equal(t, []string{"age"}, res.BeanNames())
}

func TestCollect_DuplicateBeanNameWarns(t *testing.T) {
	reg := shopModel()
	reg.Add(&model.Type{ID: id("DupTable"), Super: ref("BaseTable"), Members: []model.Member{
		member("Name", "AgeColumn", 0, nil),
	}})

	res := collect(t, reg, "DupTable", annotation.KindTableRowData, nil)
	assert.Equal(t, []string{"name", "date"}, res.BeanNames())
	assert.Equal(t, []string{diagnostic.CodeDuplicateBeanName}, res.Diagnostics.WarningCodes())
}

func TestCollect_MembersSharingATypeKeepTheirNames(t *testing.T) {
	reg := model.NewRegistry(nil)
	reg.Add(column("PhoneColumn", stringRef))
	reg.Add(&model.Type{ID: id("ContactTable"), Super: root("AbstractTable"), Members: []model.Member{
		member("Home", "PhoneColumn", 0, nil),
		member("Work", "PhoneColumn", 1, nil),
	}})

	res := collect(t, reg, "ContactTable", annotation.KindTableRowData, nil)

	require.Len(t, res.Candidates, 2, spew.Sdump(res.Candidates))
	assert.Equal(t, []string{"home", "work"}, res.BeanNames())
	assert.Empty(t, res.Diagnostics.Warnings)
}

func TestCollect_UnresolvedValueTypeWarnsAndContinues(t *testing.T) {
	reg := model.NewRegistry(nil)
	reg.Add(column("NameColumn", stringRef))
	reg.Add(&model.Type{ID: id("BrokenColumn"), Super: ref("MissingColumn")})
	reg.Add(&model.Type{ID: id("T"), Super: root("AbstractTable"), Members: []model.Member{
		member("Broken", "BrokenColumn", 0, nil),
		member("Name", "NameColumn", 1, nil),
	}})
	// BrokenColumn's root cannot be reached, so it is not a column at all;
	// register a column whose holder is left unbound instead.
	reg.Add(&model.Type{ID: id("UnboundColumn"), Super: root("AbstractColumn")})
	reg.Add(&model.Type{ID: id("U"), Super: root("AbstractTable"), Members: []model.Member{
		member("Unbound", "UnboundColumn", 0, nil),
		member("Name", "NameColumn", 1, nil),
	}})

	core, logs := observer.New(zapcore.WarnLevel)
	container, _ := reg.Lookup(id("U"))

	res, err := newCollector(reg, zap.New(core)).Collect(container, annotation.KindTableRowData, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"unbound", "name"}, res.BeanNames())
	assert.Equal(t, "any", res.Candidates[0].ValueType.String())
	assert.Equal(t, "string", res.Candidates[1].ValueType.String())
	assert.Equal(t, []string{diagnostic.CodeUnresolvedValueType}, res.Diagnostics.WarningCodes())
	assert.Equal(t, 1, logs.FilterMessage("unresolvable value type, using placeholder").Len())

	other := collect(t, reg, "T", annotation.KindTableRowData, nil)
	assert.Equal(t, []string{"name"}, other.BeanNames())
}

func TestCollect_MalformedMemberDescriptorUsesPlaceholder(t *testing.T) {
	reg := model.NewRegistry(nil)
	reg.Add(column("NameColumn", stringRef))
	reg.Add(column("DateColumn", dateRef))
	reg.Add(&model.Type{ID: id("T"), Super: root("AbstractTable"), Members: []model.Member{
		member("Name", "NameColumn", 0, model.Raw{"order": "soon"}),
		member("Date", "DateColumn", 1, nil),
	}})

	res := collect(t, reg, "T", annotation.KindTableRowData, nil)

	require.Equal(t, []string{"name", "date"}, res.BeanNames())
	assert.Equal(t, "any", res.Candidates[0].ValueType.String())
	assert.Equal(t, "time.Time", res.Candidates[1].ValueType.String())
	assert.Equal(t, []string{diagnostic.CodeMalformedMemberDescriptor}, res.Diagnostics.WarningCodes())
}

func TestCollect_FormFlattensGroupBoxes(t *testing.T) {
	reg := model.NewRegistry(nil)
	field := func(name string, value model.TypeRef) *model.Type {
		return &model.Type{ID: id(name), Super: root("AbstractValueField", value)}
	}
	reg.Add(field("FirstNameField", stringRef))
	reg.Add(field("BirthdayField", dateRef))
	reg.Add(column("NameColumn", stringRef))
	reg.Add(&model.Type{ID: id("ContactsTable"), Super: root("AbstractTable"), Members: []model.Member{
		member("Name", "NameColumn", 0, nil),
	}})
	reg.Add(&model.Type{ID: id("DetailBox"), Super: root("AbstractGroupBox"), Members: []model.Member{
		member("Birthday", "BirthdayField", 0, nil),
		member("Contacts", "ContactsTable", 1, nil),
	}})
	reg.Add(&model.Type{ID: id("PersonForm"), Super: root("AbstractForm"), Members: []model.Member{
		member("FirstName", "FirstNameField", 0, nil),
		member("Detail", "DetailBox", 1, nil),
	}})

	res := collect(t, reg, "PersonForm", annotation.KindFormData, nil)

	require.Equal(t, []string{"firstName", "birthday", "contacts"}, res.BeanNames())
	assert.True(t, res.Candidates[2].IsNested())
	assert.Equal(t, id("ContactsTable"), res.Candidates[2].ValueType.ID)
	assert.Equal(t, id("DetailBox"), res.Candidates[1].Member.Owner)
}

func TestCollect_SingleMemberContainer(t *testing.T) {
	reg := model.NewRegistry(nil)
	reg.Add(&model.Type{
		ID:         id("ExtraColumn"),
		Super:      root("AbstractColumn", model.Builtin("bool")),
		Annotation: model.Raw{"value": "example/shopdata.ExtraColumnData"},
	})

	res := collect(t, reg, "ExtraColumn", annotation.KindTableRowData, nil)

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "extra", res.Candidates[0].BeanName)
	assert.Equal(t, "bool", res.Candidates[0].ValueType.String())
}

func TestCollect_ExtensionWrapperRedirects(t *testing.T) {
	reg := shopModel()
	reg.Add(&model.Type{ID: id("Contribution"), Super: root("AbstractTable"), Members: []model.Member{
		member("Age", "AgeColumn", 0, nil),
	}})
	reg.Add(&model.Type{ID: id("PersonExtension"), Super: root("AbstractExtension", model.Ref(id("Contribution")))})

	res := collect(t, reg, "PersonExtension", annotation.KindTableRowData, nil)
	assert.Equal(t, []string{"age"}, res.BeanNames())
}

func TestCollect_ExtensionWithoutOwnerFails(t *testing.T) {
	reg := model.NewRegistry(nil)
	reg.Add(&model.Type{ID: id("Bare"), Super: root("AbstractExtension")})
	container, _ := reg.Lookup(id("Bare"))

	_, err := newCollector(reg, nil).Collect(container, annotation.KindTableRowData, nil)
	assert.True(t, diagnostic.IsConfiguration(err))
}

func TestCollect_Deterministic(t *testing.T) {
	reg := shopModel()
	first := collect(t, reg, "PersonTable", annotation.KindTableRowData, nil)

	for range 5 {
		again := collect(t, reg, "PersonTable", annotation.KindTableRowData, nil)
		assert.Equal(t, first.Candidates, again.Candidates)
	}
}

func TestCollect_ReplaceWithoutAncestorSuggestsBeanName(t *testing.T) {
	reg := shopModel()
	reg.Add(column("PhoneColumn", stringRef))
	reg.Add(&model.Type{ID: id("TypoTable"), Super: ref("BaseTable"), Members: []model.Member{
		member("Nam", "PhoneColumn", 0, model.Raw{"replace": ""}),
	}})

	res := collect(t, reg, "TypoTable", annotation.KindTableRowData, nil)

	assert.Contains(t, res.BeanNames(), "nam")
	require.Len(t, res.Diagnostics.Infos, 1)
	assert.Contains(t, res.Diagnostics.Infos[0].Message, `did you mean "name"?`)
}
