package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"datagen/internal/common"
)

// Warning codes reported while building a unit.
const (
	CodeUnresolvedValueType       = "unresolved_value_type"
	CodeAmbiguousSuperUnit        = "ambiguous_super_unit"
	CodeMalformedMemberDescriptor = "malformed_member_descriptor"
	CodeDuplicateBeanName         = "duplicate_bean_name"
	CodeDefaultRowSuper           = "default_row_super"
)

// Info codes.
const (
	CodeReplaceWithoutAncestor = "replace_without_ancestor"
)

// Error codes of failed units.
const (
	CodeConfiguration = "configuration"
	CodePersistence   = "persistence"
	CodeUnitFailed    = "unit_failed"
)

// Diagnostics holds all diagnostic information for one generation request.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Unit identifies the model type being generated (if any).
	Unit string
	// Member identifies the member this relates to (if any).
	Member string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, unit, member string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  message,
		Unit:     unit,
		Member:   member,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, unit, member string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Unit:     unit,
		Member:   member,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, unit, member string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Unit:     unit,
		Member:   member,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// WarningCodes returns the codes of all warnings in report order.
func (d *Diagnostics) WarningCodes() []string {
	codes := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		codes = append(codes, w.Code)
	}

	return codes
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Unit != "" {
		prefix = append(prefix, "["+d.Unit+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
