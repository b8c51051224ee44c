package synth

import (
	"datagen/internal/model"
)

const (
	shopPkg = "example/shop"
	dataPkg = "example/shopdata"
)

func shopID(name string) model.TypeID {
	return model.TypeID{PkgPath: shopPkg, Name: name}
}

func shopRef(name string) *model.TypeRef {
	r := model.Ref(shopID(name))
	return &r
}

func rootRef(name string, args ...model.TypeRef) *model.TypeRef {
	r := model.Ref(model.TypeID{PkgPath: model.DataModelPkg, Name: name}, args...)
	return &r
}

func target(name string) model.Raw {
	return model.Raw{"value": dataPkg + "." + name}
}

func col(name string, value model.TypeRef) *model.Type {
	return &model.Type{ID: shopID(name), Super: rootRef("AbstractColumn", value)}
}

func field(name string, value model.TypeRef) *model.Type {
	return &model.Type{ID: shopID(name), Super: rootRef("AbstractValueField", value)}
}

func mem(name, typeName string, index int, raw model.Raw) model.Member {
	return model.Member{Name: name, Type: model.Ref(shopID(typeName)), Index: index, Annotation: raw}
}

var (
	str  = model.Builtin("string")
	date = model.Ref(model.TypeID{PkgPath: "time", Name: "Time"})
)

// fixture builds a small shop model:
//
//	BaseTable      -> shopdata.BaseRowData:   Name(10), Date(20)
//	PersonTable    -> shopdata.PersonRowData: extends BaseTable, Age, Replace Name
//	HiddenTable    -> shopdata.HiddenRowData: extends BaseTable, Replace+ignore Name
//	LeafTable      (not annotated) extends PersonTable
//	LeafLeafTable  -> shopdata.LeafRowData:   extends LeafTable
//	ContactsTable, ExtContactsTable (extends ContactsTable, adds Phone)
//	BaseForm       -> shopdata.BaseFormData:  FirstName, Contacts
//	SubForm        -> shopdata.SubFormData:   extends BaseForm, Replace Contacts by ExtContacts
func fixture() *model.Registry {
	reg := model.NewRegistry(nil)

	reg.Add(col("NameColumn", str))
	reg.Add(&model.Type{ID: shopID("NickNameColumn"), Super: shopRef("NameColumn")})
	reg.Add(col("DateColumn", date))
	reg.Add(col("AgeColumn", model.Builtin("int")))
	reg.Add(col("PhoneColumn", str))
	reg.Add(field("FirstNameField", str))

	reg.Add(&model.Type{
		ID: shopID("BaseTable"), Super: rootRef("AbstractTable"), Annotation: target("BaseRowData"),
		Members: []model.Member{
			mem("Name", "NameColumn", 0, model.Raw{"order": "10"}),
			mem("Date", "DateColumn", 1, model.Raw{"order": "20"}),
		},
	})
	reg.Add(&model.Type{
		ID: shopID("PersonTable"), Super: shopRef("BaseTable"), Annotation: target("PersonRowData"),
		Members: []model.Member{
			mem("Age", "AgeColumn", 0, nil),
			mem("Nick", "NickNameColumn", 1, model.Raw{"replace": "true"}),
		},
	})
	reg.Add(&model.Type{
		ID: shopID("HiddenTable"), Super: shopRef("BaseTable"), Annotation: target("HiddenRowData"),
		Members: []model.Member{
			mem("Name", "NameColumn", 0, model.Raw{"replace": "", "command": "ignore"}),
		},
	})
	reg.Add(&model.Type{ID: shopID("LeafTable"), Super: shopRef("PersonTable")})
	reg.Add(&model.Type{ID: shopID("LeafLeafTable"), Super: shopRef("LeafTable"), Annotation: target("LeafRowData")})

	reg.Add(&model.Type{
		ID: shopID("ContactsTable"), Super: rootRef("AbstractTable"),
		Members: []model.Member{mem("Name", "NameColumn", 0, nil)},
	})
	reg.Add(&model.Type{
		ID: shopID("ExtContactsTable"), Super: shopRef("ContactsTable"),
		Members: []model.Member{mem("Phone", "PhoneColumn", 0, nil)},
	})
	reg.Add(&model.Type{
		ID: shopID("BaseForm"), Super: rootRef("AbstractForm"), Annotation: target("BaseFormData"),
		Members: []model.Member{
			mem("FirstName", "FirstNameField", 0, nil),
			mem("Contacts", "ContactsTable", 1, nil),
		},
	})
	reg.Add(&model.Type{
		ID: shopID("SubForm"), Super: shopRef("BaseForm"), Annotation: target("SubFormData"),
		Members: []model.Member{
			mem("Contacts", "ExtContactsTable", 0, model.Raw{"replace": ""}),
		},
	})

	return reg
}
