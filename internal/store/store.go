package store

import (
	"context"
	"fmt"

	"datagen/internal/annotation"
	"datagen/internal/common"
	"datagen/internal/naming"
)

// ArtifactRef identifies a generated artifact.
type ArtifactRef struct {
	// Name is the generated type name.
	Name string
	// Package is the import path of the generated package.
	Package string
	// Kind is the artifact variant.
	Kind annotation.ArtifactKind
}

// String returns the qualified type name of the artifact.
func (r ArtifactRef) String() string {
	if r.Package == "" {
		return r.Name
	}

	return r.Package + "." + r.Name
}

// Filename returns the base name of the artifact's source file.
func (r ArtifactRef) Filename() string {
	return naming.SnakeCase(r.Name) + ".go"
}

// Store reads and writes artifact text.
type Store interface {
	// Read returns the persisted text; ok is false when the artifact does
	// not exist.
	Read(ctx context.Context, ref ArtifactRef) (content []byte, ok bool, err error)
	// Write replaces the artifact text, creating it if needed.
	Write(ctx context.Context, ref ArtifactRef, content []byte) error
	// CreateSkeleton creates an empty artifact unless it already exists.
	CreateSkeleton(ctx context.Context, ref ArtifactRef) error
}

// Locator is implemented by stores that keep artifacts in files.
type Locator interface {
	Path(ref ArtifactRef) (string, error)
}

// Skeleton returns the content of a freshly created artifact.
func Skeleton(ref ArtifactRef) []byte {
	return fmt.Appendf(nil, "// Code generated by datagen. DO NOT EDIT.\n\npackage %s\n", common.PkgName(ref.Package))
}
