// Package palette derives deterministic default colors for clusters and
// areas. Sequential indices step around the hue wheel by the golden angle,
// so neighboring entities get visually distinct colors without any stored
// palette state.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"
)

const goldenAngle = 137.508

// ColorFor returns the hex color for the n-th entity of a kind.
func ColorFor(n int) string {
	hue := float64(n) * goldenAngle
	for hue >= 360 {
		hue -= 360
	}
	return colorful.Hsv(hue, 0.55, 0.92).Hex()
}

// Muted returns a desaturated variant of a hex color, used for folded or
// dimmed entities. Unparseable input is returned unchanged.
func Muted(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	return colorful.Hsv(h, s*0.4, v).Hex()
}
