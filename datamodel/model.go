package datamodel

// AbstractTable is the root of all table models. Columns are declared as
// struct fields whose types embed AbstractColumn.
type AbstractTable struct{}

// AbstractColumn is the root of all column models. T is the column's value
// type and becomes the type of the generated property.
type AbstractColumn[T any] struct {
	value T
}

// Value returns the current cell value.
func (c *AbstractColumn[T]) Value() T { return c.value }

// AbstractForm is the root of all form models.
type AbstractForm struct{}

// AbstractGroupBox groups form fields. Group boxes do not produce
// properties of their own, their fields belong to the enclosing form.
type AbstractGroupBox struct{}

// AbstractValueField is the root of value holding form fields.
type AbstractValueField[T any] struct {
	value T
}

// Value returns the field value.
func (f *AbstractValueField[T]) Value() T { return f.value }

// AbstractPage is the root of plain pages.
type AbstractPage struct{}

// AbstractPageWithTable is the root of pages backed by a single table.
type AbstractPageWithTable struct{}

// AbstractExtension wraps the container T it extends.
type AbstractExtension[T any] struct {
	owner *T
}

// Owner returns the extended container.
func (e *AbstractExtension[T]) Owner() *T { return e.owner }
