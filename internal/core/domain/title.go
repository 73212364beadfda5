package domain

import (
	"strings"
	"unicode"
)

// titleDecorations are words catalogs append to a song name to mark a
// release variant, as in "Song - Remastered 2011" or "Song [Radio Edit]".
var titleDecorations = map[string]bool{
	"bonus":      true,
	"clean":      true,
	"deluxe":     true,
	"edit":       true,
	"edition":    true,
	"explicit":   true,
	"feat":       true,
	"featuring":  true,
	"ft":         true,
	"live":       true,
	"mix":        true,
	"mono":       true,
	"radio":      true,
	"remaster":   true,
	"remastered": true,
	"stereo":     true,
	"version":    true,
}

// FoldTitle reduces a title to lowercase letter and digit words. Anything
// inside brackets is dropped, punctuation separates words, and release
// decorations are removed, so "Lights (Remastered)" and "lights - live"
// both fold to "lights".
func FoldTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	depth := 0
	for _, r := range strings.ToLower(title) {
		switch {
		case r == '(' || r == '[':
			depth++
			b.WriteByte(' ')
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
			b.WriteByte(' ')
		case depth > 0:
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if !titleDecorations[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
