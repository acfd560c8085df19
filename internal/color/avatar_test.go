package color

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForUsername(t *testing.T) {
	hex := regexp.MustCompile(`^#[0-9A-F]{6}$`)

	a := ForUsername("ada")
	assert.Regexp(t, hex, a)
	assert.Equal(t, a, ForUsername("ada"), "same username, same colour")
	assert.NotEqual(t, a, ForUsername("grace"))
}

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		r, g, b uint8
	}{
		{name: "grey", h: 120, s: 0, l: 0.5, r: 127, g: 127, b: 127},
		{name: "red", h: 0, s: 1, l: 0.5, r: 255, g: 0, b: 0},
		{name: "green", h: 120, s: 1, l: 0.5, r: 0, g: 255, b: 0},
		{name: "blue", h: 240, s: 1, l: 0.5, r: 0, g: 0, b: 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := hslToRGB(tt.h, tt.s, tt.l)
			assert.Equal(t, []uint8{tt.r, tt.g, tt.b}, []uint8{r, g, b})
		})
	}
}
