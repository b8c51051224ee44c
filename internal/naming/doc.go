// Package naming maps model members to generated names and value types.
//
// Bean names are derived deterministically from a member's declared name:
// a configured suffix ("Column", "Field", ...) is stripped and the remainder
// decapitalized. Value types are read from the type argument a member binds
// to its generic value holder (datamodel.AbstractColumn[T] and friends).
package naming
