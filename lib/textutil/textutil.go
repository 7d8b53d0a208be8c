package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// NormalizeEmail lowercases and trims an email address. Joins in the
// exporter stay byte-exact; this exists so diagnostics can point out
// near-miss addresses without changing join semantics.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NearMatch reports whether two emails differ only by case or
// surrounding whitespace.
func NearMatch(a, b string) bool {
	return a != b && NormalizeEmail(a) == NormalizeEmail(b)
}
