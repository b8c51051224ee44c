package synth

import (
	"go/format"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagen/internal/model"
)

func renderFormatted(t *testing.T, u *Unit) string {
	t.Helper()

	src, err := Render(u)
	require.NoError(t, err)

	out, err := format.Source(src)
	require.NoError(t, err, string(src))

	return string(out)
}

func TestRender_TableRowData(t *testing.T) {
	u, _ := buildUnit(t, fixture(), "BaseTable")
	src := renderFormatted(t, u)

	assert.True(t, strings.HasPrefix(src, Header+"\n\npackage shopdata\n"))
	assert.Contains(t, src, "import (\n\t\"datagen/datamodel\"\n\t\"time\"\n)\n")
	assert.Contains(t, src, "\tBaseRowDataName = \"name\"\n\tBaseRowDataDate = \"date\"\n")
	assert.Contains(t, src, "type BaseRowData struct {\n\tdatamodel.AbstractTableRowData\n\n\tname string\n\tdate time.Time\n}\n")
	assert.Contains(t, src, "func NewBaseRowData() *BaseRowData {")
	assert.Contains(t, src, "func (d *BaseRowData) Name() string {\n\treturn d.name\n}")
	assert.Contains(t, src, "func (d *BaseRowData) SetDate(v time.Time) {\n\td.date = v\n}")
	assert.NotContains(t, src, "DataObject")

	assert.Less(t, strings.Index(src, "func (d *BaseRowData) Name()"), strings.Index(src, "func (d *BaseRowData) Date()"))
}

func TestRender_NestedRowsAndSerializable(t *testing.T) {
	row := &Unit{
		Package:      dataPkg,
		PkgName:      "shopdata",
		TypeName:     "ExtDataContactsRowData",
		Source:       shopID("ContactsTable"),
		Serializable: true,
		Role:         "contacts",
		Properties: []Property{
			{BeanName: "name", Constant: "ExtDataContactsRowDataName", Field: "name", Getter: "Name", Setter: "SetName", Type: str},
		},
	}
	u := &Unit{
		Package:      dataPkg,
		PkgName:      "shopdata",
		TypeName:     "ExtData",
		Source:       shopID("PersonFormExtension"),
		Serializable: true,
		Nested:       []*Unit{row},
		Properties: []Property{{
			BeanName: "contacts", Constant: "ExtDataContacts", Field: "contacts", Getter: "Contacts", Setter: "SetContacts",
			Type:   model.TypeRef{ID: row.ID(), Pointer: true, Slice: true},
			Nested: row,
		}},
	}

	src := renderFormatted(t, u)

	assert.Contains(t, src, "import \"datagen/datamodel\"\n")
	assert.Contains(t, src, "var _ datamodel.Serializable = (*ExtData)(nil)")
	assert.Contains(t, src, "func (*ExtData) DataObject() {}")
	assert.Contains(t, src, "var _ datamodel.Serializable = (*ExtDataContactsRowData)(nil)")
	assert.Contains(t, src, "\tcontacts []*ExtDataContactsRowData\n")
	assert.Contains(t, src, "func (d *ExtData) AddContactsRow() *ExtDataContactsRowData {")
	assert.Less(t, strings.Index(src, "type ExtData struct"), strings.Index(src, "type ExtDataContactsRowData struct"))
}

func TestRender_AbstractHasNoConstructor(t *testing.T) {
	row := &Unit{Package: dataPkg, PkgName: "shopdata", TypeName: "RowData", Abstract: true, Serializable: true}
	u := &Unit{
		Package: dataPkg, PkgName: "shopdata", TypeName: "AbstractBase", Abstract: true,
		Super:  rootRef("AbstractFormData"),
		Nested: []*Unit{row},
		Properties: []Property{{
			BeanName: "rows", Constant: "AbstractBaseRows", Field: "rows", Getter: "Rows", Setter: "SetRows",
			Type: model.TypeRef{ID: row.ID(), Pointer: true, Slice: true}, Nested: row,
		}},
	}

	src := renderFormatted(t, u)

	assert.NotContains(t, src, "func NewAbstractBase")
	assert.NotContains(t, src, "func NewRowData")
	assert.NotContains(t, src, "AddRowsRow")
	assert.Contains(t, src, "It is abstract and only meant to be embedded.")
}

func TestRender_ImportNamesAreUnique(t *testing.T) {
	a := model.Ref(model.TypeID{PkgPath: "example.com/a/model", Name: "Money"})
	b := model.Ref(model.TypeID{PkgPath: "example.com/b/model", Name: "Money"})
	y := model.Ref(model.TypeID{PkgPath: "gopkg.in/yaml.v3", Name: "Node"})

	u := &Unit{
		Package: dataPkg, PkgName: "shopdata", TypeName: "PriceData",
		Super: rootRef("AbstractFormData"),
		Properties: []Property{
			{BeanName: "net", Constant: "PriceDataNet", Field: "net", Getter: "Net", Setter: "SetNet", Type: a},
			{BeanName: "gross", Constant: "PriceDataGross", Field: "gross", Getter: "Gross", Setter: "SetGross", Type: b},
			{BeanName: "raw", Constant: "PriceDataRaw", Field: "raw", Getter: "Raw", Setter: "SetRaw", Type: y},
		},
	}

	src := renderFormatted(t, u)

	assert.Contains(t, src, "import (\n\t\"datagen/datamodel\"\n\n\t\"example.com/a/model\"\n\tmodel2 \"example.com/b/model\"\n\tyaml \"gopkg.in/yaml.v3\"\n)\n")
	assert.Contains(t, src, "\tnet   model.Money\n\tgross model2.Money\n\traw   yaml.Node\n")
}

func TestRender_EmptyUnit(t *testing.T) {
	u := &Unit{Package: dataPkg, PkgName: "shopdata", TypeName: "EmptyData", Super: rootRef("AbstractPageData")}

	src := renderFormatted(t, u)

	assert.NotContains(t, src, "const (")
	assert.Contains(t, src, "type EmptyData struct {\n\tdatamodel.AbstractPageData\n}\n")
}
