// Package match ranks names by edit distance. It backs the "did you mean"
// hints for unknown model types and replace members without an ancestor.
package match
