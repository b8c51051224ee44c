package datamodel

// Serializable marks data types that can be shipped between tiers. Generated
// types acquire it through their root data type, or declare it directly when
// they have no super type.
type Serializable interface {
	DataObject()
}

// RowState describes the edit state of a table row.
type RowState int

const (
	RowStateNonChanged RowState = iota
	RowStateInserted
	RowStateUpdated
	RowStateDeleted
)

// AbstractTableRowData is the default super type of generated row data.
type AbstractTableRowData struct {
	rowState RowState
}

// DataObject implements Serializable.
func (*AbstractTableRowData) DataObject() {}

// RowState returns the row's edit state.
func (r *AbstractTableRowData) RowState() RowState { return r.rowState }

// SetRowState sets the row's edit state.
func (r *AbstractTableRowData) SetRowState(s RowState) { r.rowState = s }

// AbstractFormData is the default super type of generated form data.
type AbstractFormData struct{}

// DataObject implements Serializable.
func (*AbstractFormData) DataObject() {}

// AbstractPageData is the default super type of generated page data.
type AbstractPageData struct{}

// DataObject implements Serializable.
func (*AbstractPageData) DataObject() {}
