// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared.
package normalize

import "strings"

// Email returns a normalized form of an email address suitable for
// storage and comparisons. Normalization trims surrounding whitespace and
// lower-cases the address.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// UserCode returns the canonical upper-case form of a user code.
func UserCode(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
