// Package datamodel is the runtime library shared by model types and the
// data types generated from them.
//
// Model side: containers (tables, forms, pages, group boxes) and members
// (columns, value fields) embed one of the Abstract* model roots. Generic
// roots such as AbstractColumn[T] carry the member's value type as their
// first type argument.
//
// Data side: generated data types embed AbstractTableRowData,
// AbstractFormData or AbstractPageData, or, when generated for an extension,
// implement Serializable directly.
package datamodel
