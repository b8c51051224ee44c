package modelfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagen/internal/model"
)

const shopYAML = `
package: example.com/shop/model
types:
  - name: PersonTable
    super: AbstractTable
    annotation:
      value: example.com/shop/data.PersonRowData
    members:
      - name: Name
        type: NameColumn
        annotation: {order: 10}
      - name: Since
        type: DateColumn
        annotation:
          order: 20.5
          replace:
  - name: NameColumn
    super: AbstractColumn[string]
  - name: DateColumn
    super: AbstractColumn[time.Time]
  - name: ListColumn
    typeParams: [T]
    super: AbstractColumn[[]T]
  - name: TagsColumn
    super: ListColumn[string]
`

func TestParseAndAdd(t *testing.T) {
	f, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	reg := model.NewRegistry(nil)
	require.NoError(t, f.AddTo(reg))

	person, ok := reg.Lookup(model.TypeID{PkgPath: "example.com/shop/model", Name: "PersonTable"})
	require.True(t, ok)

	assert.Equal(t, model.DataModelPkg+".AbstractTable", person.Super.String())
	assert.Equal(t, model.Raw{"value": "example.com/shop/data.PersonRowData"}, person.Annotation)
	require.Len(t, person.Members, 2)
	assert.Equal(t, "example.com/shop/model.NameColumn", person.Members[0].Type.String())
	assert.Equal(t, model.Raw{"order": "10"}, person.Members[0].Annotation)
	assert.Equal(t, model.Raw{"order": "20.5", "replace": ""}, person.Members[1].Annotation)
	assert.Equal(t, 1, person.Members[1].Index)
	assert.Equal(t, model.KindTable, reg.KindOf(model.Ref(person.ID)))

	date, _ := reg.Lookup(model.TypeID{PkgPath: "example.com/shop/model", Name: "DateColumn"})
	assert.Equal(t, model.DataModelPkg+".AbstractColumn[time.Time]", date.Super.String())

	list, _ := reg.Lookup(model.TypeID{PkgPath: "example.com/shop/model", Name: "ListColumn"})
	assert.Equal(t, []string{"T"}, list.TypeParams)
	assert.Equal(t, model.DataModelPkg+".AbstractColumn[[]T]", list.Super.String())

	tags, _ := reg.Lookup(model.TypeID{PkgPath: "example.com/shop/model", Name: "TagsColumn"})
	assert.Equal(t, "example.com/shop/model.ListColumn[string]", tags.Super.String())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("types: []\n"))
	assert.Error(t, err, "package is required")

	_, err = Parse([]byte("package: [unterminated\n"))
	assert.Error(t, err)

	for name, doc := range map[string]string{
		"duplicate":   "package: p\ntypes:\n  - name: A\n  - name: A\n",
		"nameless":    "package: p\ntypes:\n  - super: AbstractTable\n",
		"bad member":  "package: p\ntypes:\n  - name: A\n    members:\n      - name: X\n",
		"bad typeref": "package: p\ntypes:\n  - name: A\n    super: 'AbstractColumn[string'\n",
	} {
		t.Run(name, func(t *testing.T) {
			f, err := Parse([]byte(doc))
			require.NoError(t, err)
			assert.Error(t, f.AddTo(model.NewRegistry(nil)))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(shopYAML), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, reg.Annotated(), 1)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
