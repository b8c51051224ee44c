package annotation

import (
	"fmt"
	"strings"

	"datagen/internal/common"
)

// Command tells the generator whether a member takes part in generation.
type Command int

const (
	// CommandDefault defers to the nearest SubtypeCommand, else CREATE.
	CommandDefault Command = iota
	CommandCreate
	CommandIgnore
)

// String returns the annotation spelling of the command.
func (c Command) String() string {
	switch c {
	case CommandDefault:
		return "default"
	case CommandCreate:
		return "create"
	case CommandIgnore:
		return "ignore"
	default:
		return common.UnknownStr
	}
}

// ParseCommand parses "create", "ignore" or "default"; empty means default.
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return CommandDefault, nil
	case "create":
		return CommandCreate, nil
	case "ignore":
		return CommandIgnore, nil
	default:
		return CommandDefault, fmt.Errorf("unknown command %q", s)
	}
}

// ArtifactKind is the closed set of generated artifact variants.
type ArtifactKind int

const (
	KindUnset ArtifactKind = iota
	KindPageData
	KindFormData
	KindTableRowData
)

// String returns the annotation spelling of the kind.
func (k ArtifactKind) String() string {
	switch k {
	case KindPageData:
		return "pageData"
	case KindFormData:
		return "formData"
	case KindTableRowData:
		return "tableRowData"
	case KindUnset:
		return ""
	default:
		return common.UnknownStr
	}
}

// ParseArtifactKind parses "pageData", "formData" or "tableRowData".
func ParseArtifactKind(s string) (ArtifactKind, error) {
	for _, k := range []ArtifactKind{KindPageData, KindFormData, KindTableRowData} {
		if strings.EqualFold(k.String(), strings.TrimSpace(s)) {
			return k, nil
		}
	}

	return KindUnset, fmt.Errorf("unknown artifact kind %q", s)
}
