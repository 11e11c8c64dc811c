// Package palette assigns a stable color to each lane of the commit graph,
// reusing indices as lanes close and reopen by alternating between two
// eight-color ramps.
//
// Grounded in the original engine's ColorPicker (helpers/colors.rs): two
// fixed eight-entry ramps, and a per-lane boolean flag flipped only when a
// lane's occupant changes in a way the walker considers "introduction" (see
// commitgraph/walker).
package palette

import "github.com/charmbracelet/lipgloss"

// Color is the engine's color value type. It is a lipgloss.Color directly
// so spans can be handed to lipgloss styles with no conversion step.
type Color = lipgloss.Color

// RampA and RampB are the two eight-color ramps a lane alternates between.
// Values are carried over from the original engine's "classic" theme
// (helpers/palette.rs): grass/lime/amber/grapefruit/red/purple/indigo/cyan
// for ramp A, and their paired green/yellow/orange/brown/pink/durple/blue/
// teal siblings for ramp B.
var (
	RampA = [8]Color{
		"#9CCC65", // grass
		"#D4E157", // lime
		"#FFCA28", // amber
		"#FF7043", // grapefruit
		"#EF5350", // red
		"#AB47BC", // purple
		"#5C6BC0", // indigo
		"#26C6DA", // cyan
	}
	RampB = [8]Color{
		"#66BB6A", // green
		"#FFEE58", // yellow
		"#FFA726", // orange
		"#8D6E63", // brown
		"#EC407A", // pink
		"#7E57C2", // durple
		"#42A5F5", // blue
		"#26A69A", // teal
	}
)

// Picker hands out a stable color per lane, flipping between RampA and
// RampB on demand.
type Picker struct {
	alternate map[int]bool
}

// NewPicker returns an empty picker; every lane starts on RampA.
func NewPicker() *Picker {
	return &Picker{alternate: make(map[int]bool)}
}

// Toggle flips lane's ramp flag. Called exactly when a new branch tip is
// introduced into lane, or a new lane is opened for a merge's previously
// unopened incoming parent — never on pending-merger materialization (see
// SPEC_FULL.md §C.9, Open Question (a)).
func (p *Picker) Toggle(lane int) {
	p.alternate[lane] = !p.alternate[lane]
}

// Color returns ramp-A or ramp-B's entry for lane mod 8, depending on
// lane's alternate flag (false by default).
func (p *Picker) Color(lane int) Color {
	ramp := &RampA
	if p.alternate[lane] {
		ramp = &RampB
	}
	return ramp[lane%len(ramp)]
}
