package synth

import (
	"bytes"
	"fmt"
	"slices"
	"text/template"

	"datagen/internal/model"
)

// Header is the first line of every rendered file.
const Header = "// Code generated by datagen. DO NOT EDIT."

var serializableID = model.TypeID{PkgPath: model.DataModelPkg, Name: "Serializable"}

type fileData struct {
	Header   string
	PkgName  string
	Std      []importSpec
	Other    []importSpec
	Unit     unitData
	Imported bool
	Single   *importSpec
}

type unitData struct {
	Name         string
	Source       string
	Super        string
	Serializable string
	Abstract     bool
	Props        []propData
	Nested       []unitData
}

type propData struct {
	Bean     string
	Constant string
	Field    string
	Getter   string
	Setter   string
	Type     string
	Row      string
	RowNew   bool
}

// Render produces the unformatted Go source of u and its nested units.
func Render(u *Unit) ([]byte, error) {
	imports := newImportSet(u.Package)
	record(imports, u)
	imports.assign()

	data := fileData{
		Header:  Header,
		PkgName: u.PkgName,
		Unit:    unitView(imports, u),
	}
	data.Std, data.Other = imports.groups()
	data.Imported = len(data.Std)+len(data.Other) > 0

	if specs := slices.Concat(data.Std, data.Other); len(specs) == 1 {
		data.Single = &specs[0]
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return buf.Bytes(), nil
}

func record(imports *importSet, u *Unit) {
	if u.Super != nil {
		imports.use(*u.Super)
	}

	if u.Serializable {
		imports.use(model.Ref(serializableID))
	}

	for _, p := range u.Properties {
		imports.use(p.Type)
	}

	for _, n := range u.Nested {
		record(imports, n)
	}
}

func unitView(imports *importSet, u *Unit) unitData {
	d := unitData{
		Name:     u.TypeName,
		Source:   u.Source.String(),
		Abstract: u.Abstract,
	}

	if u.Super != nil {
		d.Super = imports.typeString(*u.Super)
	}

	if u.Serializable {
		d.Serializable = imports.typeString(model.Ref(serializableID))
	}

	for _, p := range u.Properties {
		pd := propData{
			Bean:     p.BeanName,
			Constant: p.Constant,
			Field:    p.Field,
			Getter:   p.Getter,
			Setter:   p.Setter,
			Type:     imports.typeString(p.Type),
		}

		if p.Nested != nil {
			pd.Row = p.Nested.TypeName
			pd.RowNew = !p.Nested.Abstract
		}

		d.Props = append(d.Props, pd)
	}

	for _, n := range u.Nested {
		d.Nested = append(d.Nested, unitView(imports, n))
	}

	return d
}

var fileTemplate = template.Must(template.New("file").Parse(`{{.Header}}

package {{.PkgName}}
{{with .Single}}
import {{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{else}}{{if .Imported}}
import (
{{range .Std}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}}{{if and .Std .Other}}
{{end}}{{range .Other}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}{{end}}
{{template "unit" .Unit}}
{{- define "unit"}}{{$u := .Name}}{{if .Props}}
// Bean names of {{$u}}.
const (
{{range .Props}}	{{.Constant}} = "{{.Bean}}"
{{end}})
{{end}}
// {{$u}} holds the data of {{.Source}}.{{if .Abstract}}
// It is abstract and only meant to be embedded.{{end}}
type {{$u}} struct {
{{if .Super}}	{{.Super}}
{{if .Props}}
{{end}}{{end}}{{range .Props}}	{{.Field}} {{.Type}}
{{end}}}
{{if not .Abstract}}
// New{{$u}} returns an empty {{$u}}.
func New{{$u}}() *{{$u}} {
	return &{{$u}}{}
}
{{end}}{{if .Serializable}}
var _ {{.Serializable}} = (*{{$u}})(nil)

// DataObject implements {{.Serializable}}.
func (*{{$u}}) DataObject() {}
{{end}}{{range .Props}}
// {{.Getter}} returns the {{.Bean}} property.
func (d *{{$u}}) {{.Getter}}() {{.Type}} {
	return d.{{.Field}}
}

// {{.Setter}} sets the {{.Bean}} property.
func (d *{{$u}}) {{.Setter}}(v {{.Type}}) {
	d.{{.Field}} = v
}
{{if .RowNew}}
// Add{{.Getter}}Row appends an empty row to the {{.Bean}} property and returns it.
func (d *{{$u}}) Add{{.Getter}}Row() *{{.Row}} {
	row := New{{.Row}}()
	d.{{.Field}} = append(d.{{.Field}}, row)

	return row
}
{{end}}{{end}}{{range .Nested}}{{template "unit" .}}{{end}}{{end}}`))
