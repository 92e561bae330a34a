// Package svg renders badge images. Render is a pure function of its
// inputs, so responses are byte-identical across calls and safe to cache
// forever.
package svg

import (
	"fmt"
	"strings"
	"unicode"
)

// Palette is the fixed set of badge background colors. Color selection
// indexes into it modulo its length, so any non-negative index is valid.
var Palette = []string{
	"#2563eb",
	"#16a34a",
	"#d97706",
	"#dc2626",
	"#7c3aed",
	"#0891b2",
	"#db2777",
	"#65a30d",
}

// Initials reduces a label to at most two uppercase letters, one from
// each of the first two words. "Jane Doe" becomes "JD"; a single word
// yields a single letter; an empty label yields "?".
func Initials(label string) string {
	words := strings.Fields(label)
	var b strings.Builder
	for i, word := range words {
		if i == 2 {
			break
		}
		r := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// Render produces a square badge with the label's initials over a palette
// color. Identical inputs produce identical bytes.
func Render(label string, colorIndex int) []byte {
	if colorIndex < 0 {
		colorIndex = -colorIndex
	}
	color := Palette[colorIndex%len(Palette)]
	initials := Initials(label)

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="128" height="128" viewBox="0 0 128 128">`+
		`<rect width="128" height="128" rx="16" fill="%s"/>`+
		`<text x="64" y="64" dy="0.35em" text-anchor="middle" font-family="sans-serif" font-size="48" fill="#ffffff">%s</text>`+
		`</svg>`, color, initials)
	return []byte(svg)
}
