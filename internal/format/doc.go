// Package format normalizes rendered Go source before it is compared with
// the persisted artifact, and organizes imports after it is written.
package format
