package common

import (
	"path"
	"strings"
	"unicode"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// SplitQualified splits "pkg/path.Name" into its package path and name.
// A name without a dot is returned with an empty package path.
func SplitQualified(qualified string) (pkgPath, name string) {
	for i := len(qualified) - 1; i >= 0; i-- {
		switch qualified[i] {
		case '.':
			return qualified[:i], qualified[i+1:]
		case '/':
			return "", qualified
		}
	}

	return "", qualified
}

// PkgName guesses the package name declared at pkgPath: the last path
// element without a major version suffix ("/v2", ".v3") or "go-" prefix,
// reduced to identifier characters.
func PkgName(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if parent := path.Dir(pkgPath); parent != "." && parent != "/" {
			base = path.Base(parent)
		}
	}

	if i := strings.LastIndex(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}

	base = strings.TrimPrefix(base, "go-")

	name := strings.Map(func(r rune) rune {
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return -1
		}
	}, base)

	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "pkg" + name
	}

	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
