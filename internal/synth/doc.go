// Package synth builds data type units from collected member candidates and
// renders them to Go source.
//
// A unit is one generated struct: a bean-name constant, an unexported field,
// a getter and a setter per property, plus one nested row unit per table
// member of a form or page. Rendering is a pure function of the unit, so
// identical model snapshots always yield identical text.
package synth
