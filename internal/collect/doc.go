// Package collect computes the ordered member candidates of a model
// container.
//
// Members are gathered from the container and all of its model ancestors,
// root-most first. Per member the resolved command applies: CREATE keeps it,
// IGNORE drops it, and a Replace member supersedes the ancestor member with
// the same bean name at the ancestor's position. Candidates already
// materialized in the generated super data chain are removed, and the rest
// are stably sorted by explicit order.
package collect
