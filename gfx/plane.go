package gfx

// Plane selects which binary rendering of a 2-bit source the renderer
// is producing. True 4-level gray on the panel is achieved by flashing
// two binary planes in sequence; the renderer itself is plane-agnostic
// per call and the caller picks the plane for each draw session.
type Plane int

// Render planes.
const (
	// PlaneBW is the ordinary single-pass binary rendering.
	PlaneBW Plane = iota
	// PlaneMSB is the first grayscale pass.
	PlaneMSB
	// PlaneLSB is the second grayscale pass.
	PlaneLSB
)

// paints reports whether a 2-bit gray level (0 black .. 3 white, after
// the storage remap) produces a pixel write on the given plane.
//
// White never paints. In black-and-white everything else collapses to
// black. On the grayscale planes only the mid levels mark pixels:
// light gray (2) on the MSB pass alone, dark gray (1) on both passes;
// solid black comes from the ordinary black-and-white pass underneath.
func paints(level byte, p Plane) bool {
	switch p {
	case PlaneMSB:
		return level == 1 || level == 2
	case PlaneLSB:
		return level == 1
	default:
		return level < 3
	}
}
