package clips

import "strings"

const maxBaseNameLength = 50

// Sanitize maps filesystem-hostile characters and spaces to underscores and
// caps the result at 50 characters, bounding filename length and blocking
// path traversal via crafted titles.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*', ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	cleaned := []rune(b.String())
	if len(cleaned) > maxBaseNameLength {
		cleaned = cleaned[:maxBaseNameLength]
	}
	return string(cleaned)
}
