// Package analyze builds a model.Registry from Go source.
//
// It loads model packages with golang.org/x/tools/go/packages and reads
// every exported struct type:
//
//   - the first embedded field is the model super type, type arguments
//     included (AbstractColumn[string], PersonTable, ...)
//   - the remaining exported fields are members
//   - //datagen: lines in the type's doc comment form the type annotation
//   - data:"..." and order:"..." struct tags form member annotations
//
// Example:
//
//	//datagen:value datagen/examples/shopdata.PersonRowData
//	type PersonTable struct {
//		datamodel.AbstractTable
//
//		Name NameColumn `order:"10"`
//		Nick NickColumn `data:"replace,command=ignore"`
//	}
package analyze
