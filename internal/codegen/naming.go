package codegen

import (
	"strings"
	"unicode"
)

const (
	entryFilePrefix    = "nibel_"
	providerFilePrefix = "zz_nibel_"
	generatedSuffix    = ".go"
)

// EntryFileName returns the file an entry for decl is written to.
func EntryFileName(decl string) string {
	return entryFilePrefix + snakeCase(decl) + generatedSuffix
}

// ProviderFileName returns the discovery file for a destination. Go
// ignores files starting with an underscore, so the discovery name itself
// cannot be used.
func ProviderFileName(qualifiedDestination string) string {
	return providerFilePrefix + strings.ToLower(strings.TrimPrefix(Identifier(qualifiedDestination), "_")) + generatedSuffix
}

// IsGeneratedFileName reports whether name follows the generated file
// naming scheme.
func IsGeneratedFileName(name string) bool {
	return strings.HasSuffix(name, generatedSuffix) &&
		!strings.HasSuffix(name, "_test.go") &&
		(strings.HasPrefix(name, entryFilePrefix) || strings.HasPrefix(name, providerFilePrefix))
}

// Identifier turns s into a Go identifier by replacing every character
// that cannot appear in one with an underscore.
func Identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r) && i > 0:
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
