package modelfile

// File is the root of a model YAML file.
type File struct {
	// Package is the import path unqualified type names belong to.
	Package string     `yaml:"package"`
	Types   []TypeSpec `yaml:"types"`
}

// TypeSpec declares one model type.
type TypeSpec struct {
	Name       string         `yaml:"name"`
	TypeParams []string       `yaml:"typeParams,omitempty"`
	Super      string         `yaml:"super,omitempty"`
	Abstract   bool           `yaml:"abstract,omitempty"`
	Annotation map[string]any `yaml:"annotation,omitempty"`
	Members    []MemberSpec   `yaml:"members,omitempty"`
}

// MemberSpec declares one member of a container.
type MemberSpec struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Annotation map[string]any `yaml:"annotation,omitempty"`
}
