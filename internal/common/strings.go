package common

// Shared type and label strings.
const (
	UnknownStr = "unknown"
	AnyTypeStr = "any"
)
