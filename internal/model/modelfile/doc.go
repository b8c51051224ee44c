// Package modelfile declares model types in YAML, for projects whose models
// are not Go source or for quick experiments.
//
// Example:
//
//	package: example.com/shop/model
//	types:
//	  - name: PersonTable
//	    super: AbstractTable
//	    annotation:
//	      value: example.com/shop/data.PersonRowData
//	    members:
//	      - name: Name
//	        type: NameColumn
//	        annotation: {order: 10}
//	  - name: NameColumn
//	    super: AbstractColumn[string]
//
// Unqualified names refer to predeclared Go types, type parameters of the
// declaring type, datamodel roots, or else types of the file's package.
package modelfile
