package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":          "JD",
		"jane doe":          "JD",
		"Ada":               "A",
		"mary jo anne":      "MJ",
		"  spaced   words ": "SW",
		"":                  "?",
	}
	for label, want := range cases {
		assert.Equal(t, want, Initials(label), "label %q", label)
	}
}

func TestRenderDeterministic(t *testing.T) {
	first := Render("Jane Doe", 0)
	second := Render("Jane Doe", 0)
	assert.Equal(t, first, second)

	assert.Contains(t, string(first), ">JD<")
	assert.Contains(t, string(first), Palette[0])
}

func TestRenderColorIndexWraps(t *testing.T) {
	wrapped := Render("Ada", len(Palette))
	base := Render("Ada", 0)
	assert.Equal(t, base, wrapped)

	negative := Render("Ada", -2)
	assert.Contains(t, string(negative), Palette[2])
}
