/*
Package gfx is the framebuffer renderer of the Papyrix e-ink reader.

The renderer draws into the panel's packed 1-bit framebuffer, which
lives in physical landscape orientation; every public drawing call
takes logical portrait coordinates and remaps them per pixel. Drawing
outside the screen clips silently, missing fonts and glyphs degrade to
a fallback, and a missing framebuffer turns every call into a logged
no-op, so UI code never has to handle drawing errors.

Nothing here is safe for concurrent use; the caller serializes access
to the renderer and its panel.
*/
package gfx

import (
	"github.com/papyrix/papyrix/font"
)

// Renderer draws UI primitives, text and bitmaps into a Panel's
// framebuffer using logical portrait coordinates.
type Renderer struct {
	panel Panel
	fonts map[int]*font.Family
	plane Plane

	physW      int
	physH      int
	widthBytes int
}

// New returns a renderer for the given panel, drawing on the
// black-and-white plane.
func New(panel Panel) *Renderer {
	w, h := panel.Size()
	return &Renderer{
		panel:      panel,
		fonts:      make(map[int]*font.Family),
		physW:      w,
		physH:      h,
		widthBytes: (w + 7) / 8,
	}
}

// WithPlane returns a renderer drawing on the given plane. The returned
// value shares the panel and font registry; it is how a caller runs the
// two grayscale passes without mutating shared state.
func (r *Renderer) WithPlane(p Plane) *Renderer {
	dup := *r
	dup.plane = p
	return &dup
}

// RegisterFont makes a font family available under the given id.
func (r *Renderer) RegisterFont(id int, fam *font.Family) {
	r.fonts[id] = fam
}

func (r *Renderer) family(id int) *font.Family {
	fam, ok := r.fonts[id]
	if !ok {
		Logger().Warn("gfx: font not found", "font", id)
		return nil
	}
	return fam
}

// ScreenWidth returns the logical (portrait) screen width.
func (r *Renderer) ScreenWidth() int { return r.physH }

// ScreenHeight returns the logical (portrait) screen height.
func (r *Renderer) ScreenHeight() int { return r.physW }

// BufferSize returns the framebuffer length in bytes.
func (r *Renderer) BufferSize() int { return r.widthBytes * r.physH }

// remap converts logical portrait coordinates to physical landscape
// ones: a 90 degree clockwise rotation.
func (r *Renderer) remap(x, y int) (px, py int) {
	return y, r.physH - 1 - x
}

// inBounds is the single clipping test every primitive goes through.
func (r *Renderer) inBounds(px, py int) bool {
	return px >= 0 && px < r.physW && py >= 0 && py < r.physH
}

// DrawPixel paints one logical pixel. Out-of-range coordinates and a
// missing framebuffer are logged no-ops, never errors; a black pixel
// clears its bit and a white pixel sets it.
func (r *Renderer) DrawPixel(x, y int, black bool) {
	fb := r.panel.FrameBuffer()
	if fb == nil {
		Logger().Warn("gfx: no framebuffer")
		return
	}

	px, py := r.remap(x, y)
	if !r.inBounds(px, py) {
		Logger().Debug("gfx: pixel outside range", "x", x, "y", y)
		return
	}

	idx := py*r.widthBytes + px/8
	mask := byte(0x80 >> uint(px%8))
	if black {
		fb[idx] &^= mask
	} else {
		fb[idx] |= mask
	}
}

// PixelAt reads one logical pixel back, reporting whether it is black.
// Out-of-range coordinates and a missing framebuffer read as white.
func (r *Renderer) PixelAt(x, y int) bool {
	fb := r.panel.FrameBuffer()
	if fb == nil {
		return false
	}
	px, py := r.remap(x, y)
	if !r.inBounds(px, py) {
		return false
	}
	return fb[py*r.widthBytes+px/8]&(0x80>>uint(px%8)) == 0
}

// DrawLine draws an axis-aligned line between the two endpoints,
// inclusive. Diagonal lines are unsupported and log a no-op.
func (r *Renderer) DrawLine(x1, y1, x2, y2 int, black bool) {
	switch {
	case x1 == x2:
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		for y := y1; y <= y2; y++ {
			r.DrawPixel(x1, y, black)
		}
	case y1 == y2:
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		for x := x1; x <= x2; x++ {
			r.DrawPixel(x, y1, black)
		}
	default:
		Logger().Warn("gfx: diagonal lines not supported")
	}
}

// DrawThickLine draws lineWidth adjacent one-pixel lines offset along
// the minor axis.
func (r *Renderer) DrawThickLine(x1, y1, x2, y2, lineWidth int, black bool) {
	for i := 0; i < lineWidth; i++ {
		r.DrawLine(x1, y1+i, x2, y2+i, black)
	}
}

// DrawRect outlines a rectangle with one-pixel lines.
func (r *Renderer) DrawRect(x, y, width, height int, black bool) {
	r.DrawLine(x, y, x+width-1, y, black)
	r.DrawLine(x+width-1, y, x+width-1, y+height-1, black)
	r.DrawLine(x+width-1, y+height-1, x, y+height-1, black)
	r.DrawLine(x, y, x, y+height-1, black)
}

// DrawThickRect outlines a rectangle with a border lineWidth pixels
// wide, drawn inward.
func (r *Renderer) DrawThickRect(x, y, width, height, lineWidth int, black bool) {
	for i := 0; i < lineWidth; i++ {
		r.DrawLine(x+i, y+i, x+width-i, y+i, black)
		r.DrawLine(x+width-i, y+i, x+width-i, y+height-i, black)
		r.DrawLine(x+width-i, y+height-i, x+i, y+height-i, black)
		r.DrawLine(x+i, y+height-i, x+i, y+i, black)
	}
}

// FillRect fills a rectangle as contiguous scanlines.
func (r *Renderer) FillRect(x, y, width, height int, black bool) {
	for fy := y; fy < y+height; fy++ {
		r.DrawLine(x, fy, x+width-1, fy, black)
	}
}

// Clear asks the panel to clear the whole screen to color.
func (r *Renderer) Clear(color byte) {
	r.panel.Clear(color)
}

// InvertScreen complements every framebuffer byte.
func (r *Renderer) InvertScreen() {
	fb := r.panel.FrameBuffer()
	if fb == nil {
		Logger().Warn("gfx: no framebuffer")
		return
	}
	for i := range fb {
		fb[i] = ^fb[i]
	}
}

// Display flushes the framebuffer to the panel.
func (r *Renderer) Display(mode RefreshMode) {
	r.panel.Display(mode)
}

// DisplayWindow flushes one logical rectangle to the panel, remapping
// it to physical coordinates.
func (r *Renderer) DisplayWindow(x, y, width, height int) {
	px := y
	py := r.physH - x - width
	r.panel.DisplayWindow(px, py, height, width)
}

// DrawImage blits a pre-rotated bitmap asset at the logical position.
func (r *Renderer) DrawImage(raw []byte, x, y, width, height int) {
	r.panel.DrawImage(raw, y, x, height, width)
}

// DrawIcon blits a pre-rotated asset right-aligned against the screen
// edge, which is where the reader draws its status icons.
func (r *Renderer) DrawIcon(raw []byte, x, y, width, height int) {
	r.panel.DrawImage(raw, y, r.ScreenWidth()-width-x, height, width)
}

// GrayscaleRevert asks the panel to undo its grayscale state.
func (r *Renderer) GrayscaleRevert() {
	r.panel.GrayscaleRevert()
}

// CopyGrayscaleLSBBuffers hands the current framebuffer to the panel as
// the LSB plane.
func (r *Renderer) CopyGrayscaleLSBBuffers() {
	r.panel.CopyGrayscaleLSB(r.panel.FrameBuffer())
}

// CopyGrayscaleMSBBuffers hands the current framebuffer to the panel as
// the MSB plane.
func (r *Renderer) CopyGrayscaleMSBBuffers() {
	r.panel.CopyGrayscaleMSB(r.panel.FrameBuffer())
}

// DisplayGrayBuffer flashes the composed grayscale planes.
func (r *Renderer) DisplayGrayBuffer() {
	r.panel.DisplayGray()
}
