// Package normalize canonicalizes free-text input before validation and
// storage.
package normalize

import "strings"

// Status values shared by courses, pdfs and classes.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Name trims and collapses inner whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Status lowercases and trims. An empty result stays empty so callers can
// apply their own default.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StatusOrActive is Status with StatusActive as the default.
func StatusOrActive(s string) string {
	if v := Status(s); v != "" {
		return v
	}
	return StatusActive
}

// URL trims surrounding whitespace.
func URL(s string) string {
	return strings.TrimSpace(s)
}
