package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagen/internal/diagnostic"
	"datagen/internal/model"
)

const pkg = "example/shop"

func id(name string) model.TypeID {
	return model.TypeID{PkgPath: pkg, Name: name}
}

func root(name string, args ...model.TypeRef) *model.TypeRef {
	ref := model.Ref(model.TypeID{PkgPath: model.DataModelPkg, Name: name}, args...)
	return &ref
}

func newRegistry() *model.Registry {
	reg := model.NewRegistry(nil)
	reg.Add(&model.Type{
		ID:         id("HiddenColumn"),
		Super:      root("AbstractColumn", model.Builtin("string")),
		Annotation: model.Raw{KeySubtypeCommand: "ignore"},
	})
	reg.Add(&model.Type{ID: id("SecretColumn"), Super: &model.TypeRef{ID: id("HiddenColumn")}})
	reg.Add(&model.Type{ID: id("VisibleSecretColumn"), Super: &model.TypeRef{ID: id("HiddenColumn")},
		Annotation: model.Raw{KeyCommand: "create", KeyOrder: "5"},
	})
	reg.Add(&model.Type{ID: id("NameColumn"), Super: root("AbstractColumn", model.Builtin("string"))})
	reg.Add(&model.Type{
		ID:         id("PersonTable"),
		Super:      root("AbstractTable"),
		Annotation: model.Raw{KeyValue: "example/shopdata.PersonRowData"},
		Members: []model.Member{
			{Name: "Name", Type: model.Ref(id("NameColumn")), Index: 0, Annotation: model.Raw{KeyOrder: "10"}},
			{Name: "Secret", Type: model.Ref(id("SecretColumn")), Index: 1},
			{Name: "Visible", Type: model.Ref(id("VisibleSecretColumn")), Index: 2},
			{Name: "Shown", Type: model.Ref(id("SecretColumn")), Index: 3, Annotation: model.Raw{KeyCommand: "create"}},
			{Name: "Bad", Type: model.Ref(id("NameColumn")), Index: 4, Annotation: model.Raw{KeyOrder: "first"}},
		},
	})
	reg.Add(&model.Type{ID: id("PersonForm"), Super: root("AbstractForm"), Abstract: true,
		Annotation: model.Raw{KeyValue: "example/shopdata.PersonFormData", KeySuper: "example/shopdata.BaseFormData"},
	})
	reg.Add(&model.Type{ID: id("PersonExtension"), Super: root("AbstractExtension", model.Ref(id("PersonTable"))),
		Annotation: model.Raw{KeyValue: "example/shopdata.PersonExtensionData"},
	})

	return reg
}

func mustLookup(t *testing.T, reg *model.Registry, name string) *model.Type {
	t.Helper()

	typ, ok := reg.Lookup(id(name))
	require.True(t, ok, name)

	return typ
}

func TestResolver_ForType(t *testing.T) {
	reg := newRegistry()
	r := NewResolver(reg)

	d, err := r.ForType(mustLookup(t, reg, "PersonTable"))
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "example/shopdata.PersonRowData", d.Target.String())
	assert.Equal(t, KindTableRowData, d.Kind)
	assert.Equal(t, CommandCreate, d.Command)
	assert.Nil(t, d.Super)

	d, err = r.ForType(mustLookup(t, reg, "PersonForm"))
	require.NoError(t, err)
	assert.Equal(t, KindFormData, d.Kind)
	require.NotNil(t, d.Super)
	assert.Equal(t, "example/shopdata.BaseFormData", d.Super.String())
	assert.True(t, d.Abstract)

	d, err = r.ForType(mustLookup(t, reg, "PersonExtension"))
	require.NoError(t, err)
	assert.Equal(t, KindTableRowData, d.Kind)
}

func TestResolver_ForType_NotAnnotated(t *testing.T) {
	reg := newRegistry()

	d, err := NewResolver(reg).ForType(mustLookup(t, reg, "NameColumn"))
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestResolver_ForType_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   model.Raw
		field string
	}{
		{"missing value", model.Raw{KeyKind: "formData"}, KeyValue},
		{"bad kind", model.Raw{KeyValue: "x.Data", KeyKind: "listData"}, KeyKind},
		{"bad command", model.Raw{KeyValue: "x.Data", KeyCommand: "skip"}, KeyCommand},
		{"bad flag", model.Raw{KeyValue: "x.Data", KeyAbstract: "maybe"}, KeyAbstract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := model.NewRegistry(nil)
			reg.Add(&model.Type{ID: id("Broken"), Super: root("AbstractForm"), Annotation: tt.raw})

			_, err := NewResolver(reg).ForType(mustLookup(t, reg, "Broken"))
			require.Error(t, err)

			var ce *diagnostic.ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Equal(t, "example/shop.Broken", ce.Element)
		})
	}
}

func TestResolver_ForType_UninferableKind(t *testing.T) {
	reg := model.NewRegistry(nil)
	reg.Add(&model.Type{ID: id("Loose"), Annotation: model.Raw{KeyValue: "x.Data"}})

	_, err := NewResolver(reg).ForType(mustLookup(t, reg, "Loose"))
	assert.True(t, diagnostic.IsConfiguration(err))
}

func TestResolver_ForMember(t *testing.T) {
	reg := newRegistry()
	r := NewResolver(reg)
	members := mustLookup(t, reg, "PersonTable").Members

	tests := []struct {
		member  string
		command Command
		order   *float64
	}{
		{"Name", CommandCreate, ptr(10)},
		{"Secret", CommandIgnore, nil},
		{"Visible", CommandCreate, ptr(5)},
		{"Shown", CommandCreate, nil},
	}

	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			m := findMember(t, members, tt.member)

			d, err := r.ForMember(m)
			require.NoError(t, err)
			assert.Equal(t, tt.command, d.Command)
			assert.Equal(t, tt.order, d.Order)
			assert.False(t, d.Replace)
		})
	}
}

func TestResolver_ForMember_Malformed(t *testing.T) {
	reg := newRegistry()
	m := findMember(t, mustLookup(t, reg, "PersonTable").Members, "Bad")

	_, err := NewResolver(reg).ForMember(m)
	assert.True(t, diagnostic.IsConfiguration(err))
}

func TestParseArtifactKind(t *testing.T) {
	k, err := ParseArtifactKind("formdata")
	require.NoError(t, err)
	assert.Equal(t, KindFormData, k)

	_, err = ParseArtifactKind("")
	assert.Error(t, err)
}

func findMember(t *testing.T, members []model.Member, name string) model.Member {
	t.Helper()

	for _, m := range members {
		if m.Name == name {
			return m
		}
	}

	t.Fatalf("member %s not found", name)

	return model.Member{}
}

func ptr(v float64) *float64 {
	return &v
}
