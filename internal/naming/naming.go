package naming

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSuffixes are stripped from member type names before decapitalizing.
var DefaultSuffixes = []string{"Column", "Field", "Box", "Table", "Button"}

// BeanName returns the canonical property name of a member type name.
func BeanName(simpleName string, suffixes []string) string {
	return Decapitalize(StripSuffix(simpleName, suffixes))
}

// StripSuffix removes the first configured suffix that leaves a non-empty
// name behind.
func StripSuffix(name string, suffixes []string) string {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}

	return name
}

// Decapitalize lowers the first letter, except when the first two letters
// are both upper case ("URL" stays "URL", "Name" becomes "name").
func Decapitalize(s string) string {
	if s == "" {
		return s
	}

	first, size := utf8.DecodeRuneInString(s)
	if second, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(first) && unicode.IsUpper(second) {
		return s
	}

	return string(unicode.ToLower(first)) + s[size:]
}

// Capitalize upper-cases the first letter.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	first, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(first)) + s[size:]
}

// FieldIdent returns a private Go identifier for a bean name. A leading
// acronym is lowered as a whole ("URLPath" becomes "urlPath") and keywords
// are escaped ("type" becomes "type_").
func FieldIdent(bean string) string {
	runes := []rune(bean)

	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}

	switch {
	case upper == len(runes):
		upper = len(runes)
	case upper > 1:
		upper--
	}

	for i := range upper {
		runes[i] = unicode.ToLower(runes[i])
	}

	ident := string(runes)
	if token.IsKeyword(ident) {
		ident += "_"
	}

	return ident
}

// SnakeCase converts a CamelCase identifier to snake_case
// ("PersonTableRowData" becomes "person_table_row_data").
func SnakeCase(s string) string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return strings.Join(tokens, "_")
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && startsToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// startsToken reports whether a new token starts at position i.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	// End of acronym: "XMLParser" splits before 'P'.
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
