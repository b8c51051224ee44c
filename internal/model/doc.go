// Package model is the type model consumed by the generator.
//
// A Provider resolves qualified names to model types, exposes their
// supertypes, members and raw annotation data. Registry is the in-memory
// Provider filled by the Go source loader (package analyze) or by YAML model
// files (package modelfile). Every Resolve returns a fresh snapshot, so
// generation never observes state cached across requests.
package model
