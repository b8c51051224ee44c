// Package store persists generated artifacts.
//
// FS maps artifacts of the module's own packages to files below the module
// root and replaces them atomically. Memory keeps artifacts in memory and
// counts writes; it backs dry runs and tests. Locks serializes the
// read-modify-write cycle of each artifact.
package store
