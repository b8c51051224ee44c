package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"datagen/internal/model"
)

func TestValueType(t *testing.T) {
	id := func(name string) model.TypeID { return model.TypeID{PkgPath: "example/shop", Name: name} }
	column := model.TypeID{PkgPath: model.DataModelPkg, Name: "AbstractColumn"}
	timeRef := model.Ref(model.TypeID{PkgPath: "time", Name: "Time"})

	reg := model.NewRegistry(nil)
	reg.Add(&model.Type{ID: id("NameColumn"), Super: ptr(model.Ref(column, model.Builtin("string")))})
	reg.Add(&model.Type{ID: id("NickColumn"), Super: ptr(model.Ref(id("NameColumn")))})
	reg.Add(&model.Type{
		ID:         id("BaseColumn"),
		TypeParams: []string{"V"},
		Super:      ptr(model.Ref(column, model.Builtin("V"))),
	})
	reg.Add(&model.Type{ID: id("DateColumn"), Super: ptr(model.Ref(id("BaseColumn"), timeRef))})
	reg.Add(&model.Type{ID: id("RawColumn"), Super: ptr(model.Ref(id("BaseColumn")))})
	reg.Add(&model.Type{ID: id("Orphan"), Super: ptr(model.Ref(id("Missing")))})

	tests := []struct {
		name string
		ref  model.TypeRef
		want string
		ok   bool
	}{
		{"direct", model.Ref(id("NameColumn")), "string", true},
		{"inherited", model.Ref(id("NickColumn")), "string", true},
		{"substituted", model.Ref(id("DateColumn")), "time.Time", true},
		{"holder itself", model.Ref(column, model.Builtin("int64")), "int64", true},
		{"unbound parameter", model.Ref(id("RawColumn")), "any", false},
		{"unknown super", model.Ref(id("Orphan")), "any", false},
		{"not a model type", model.Builtin("int"), "any", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ValueType(reg, tt.ref, DefaultHolders())
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func ptr(ref model.TypeRef) *model.TypeRef {
	return &ref
}
