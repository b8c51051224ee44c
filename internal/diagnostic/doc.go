// Package diagnostic provides structured warnings and errors for the data
// type generator.
//
// Key capabilities:
//   - Resolution warnings (unresolved value types, ambiguous super units)
//   - Typed unit-fatal errors (ConfigurationError, PersistenceError)
//   - Aggregation of diagnostics per generated unit
package diagnostic
