package format

import (
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

// DefaultTabWidth is the gofmt tab width.
const DefaultTabWidth = 8

// Style configures source formatting.
type Style struct {
	// TabWidth is used when imports are organized during formatting.
	TabWidth int
	// OrganizeImports formats through goimports in format-only mode, which
	// also sorts and groups the import block.
	OrganizeImports bool
}

// DefaultStyle returns gofmt formatting with import grouping.
func DefaultStyle() Style {
	return Style{TabWidth: DefaultTabWidth, OrganizeImports: true}
}

// Formatter formats rendered source text.
type Formatter interface {
	Format(src []byte, style Style) ([]byte, error)
}

// Organizer rewrites the imports of a written file.
type Organizer interface {
	Organize(filename string, src []byte) ([]byte, error)
}

// SourceError reports source that could not be formatted. Source holds the
// unformatted input.
type SourceError struct {
	Source []byte
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("formatting generated source: %v", e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// GoFormatter formats with go/format, or goimports when the style asks for
// organized imports.
type GoFormatter struct{}

// Format implements Formatter.
func (GoFormatter) Format(src []byte, style Style) ([]byte, error) {
	var (
		out []byte
		err error
	)

	if style.OrganizeImports {
		width := style.TabWidth
		if width <= 0 {
			width = DefaultTabWidth
		}

		out, err = imports.Process("", src, &imports.Options{
			TabWidth:   width,
			TabIndent:  true,
			Comments:   true,
			FormatOnly: true,
		})
	} else {
		out, err = format.Source(src)
	}

	if err != nil {
		return nil, &SourceError{Source: src, Err: err}
	}

	return out, nil
}

// ImportsOrganizer runs goimports over written files. Unless Fix is set it
// only sorts and groups imports; with Fix it also adds missing and removes
// unused imports, which may load packages from the module.
type ImportsOrganizer struct {
	Fix bool
}

// Organize implements Organizer.
func (o ImportsOrganizer) Organize(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		TabWidth:   DefaultTabWidth,
		TabIndent:  true,
		Comments:   true,
		FormatOnly: !o.Fix,
	})
	if err != nil {
		return nil, fmt.Errorf("organizing imports of %s: %w", filename, err)
	}

	return out, nil
}

// WriteDebug writes unformatted source next to the intended output as
// <name>.unformatted.go so it can be inspected. It is a no-op unless err is
// a SourceError and dir is set.
func WriteDebug(dir, filename string, err error) error {
	var se *SourceError
	if dir == "" || filename == "" || !errors.As(err, &se) {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	debugName := strings.TrimSuffix(filepath.Base(filename), ".go") + ".unformatted.go"

	return os.WriteFile(filepath.Join(dir, debugName), se.Source, 0o644)
}
