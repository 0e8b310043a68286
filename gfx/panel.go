package gfx

// RefreshMode selects how the panel flushes the framebuffer.
type RefreshMode int

// Panel refresh modes.
const (
	FullRefresh RefreshMode = iota
	PartialRefresh
)

// Panel is the e-ink controller driver the renderer draws through. All
// coordinates are physical (landscape); the renderer handles the
// portrait remap. FrameBuffer may return nil when the controller has no
// buffer attached, which the renderer treats as recoverable.
type Panel interface {
	// FrameBuffer returns the packed 1-bit framebuffer, row-major,
	// most significant bit first, or nil.
	FrameBuffer() []byte
	// Size returns the physical (landscape) dimensions in pixels.
	Size() (width, height int)
	Clear(color byte)
	Display(mode RefreshMode)
	DisplayWindow(x, y, width, height int)
	// DrawImage blits a pre-rotated bitmap asset directly.
	DrawImage(raw []byte, x, y, width, height int)

	// Grayscale plane plumbing: the renderer produces one binary
	// plane at a time and the panel composes and flashes them.
	CopyGrayscaleLSB(fb []byte)
	CopyGrayscaleMSB(fb []byte)
	DisplayGray()
	GrayscaleRevert()
	CleanupGrayscale(fb []byte)
}

// MemoryPanel is an in-memory Panel for host-side tooling and tests.
// The grayscale plane operations snapshot the framebuffer so a test can
// inspect what would have been flashed.
type MemoryPanel struct {
	width    int
	height   int
	buf      []byte
	lsb      []byte
	msb      []byte
	detached bool
}

// NewMemoryPanel returns a panel with the given physical dimensions,
// cleared to white.
func NewMemoryPanel(width, height int) *MemoryPanel {
	p := &MemoryPanel{
		width:  width,
		height: height,
		buf:    make([]byte, (width+7)/8*height),
	}
	p.Clear(0xff)
	return p
}

// Detach makes FrameBuffer return nil, simulating a controller without
// an attached buffer.
func (p *MemoryPanel) Detach() { p.detached = true }

// FrameBuffer returns the packed framebuffer, or nil when detached.
func (p *MemoryPanel) FrameBuffer() []byte {
	if p.detached {
		return nil
	}
	return p.buf
}

// Size returns the physical dimensions.
func (p *MemoryPanel) Size() (int, int) { return p.width, p.height }

// Clear fills every framebuffer byte with color.
func (p *MemoryPanel) Clear(color byte) {
	for i := range p.buf {
		p.buf[i] = color
	}
}

// Display is a no-op on the memory panel.
func (p *MemoryPanel) Display(RefreshMode) {}

// DisplayWindow is a no-op on the memory panel.
func (p *MemoryPanel) DisplayWindow(x, y, width, height int) {}

// DrawImage blits raw 1-bit rows directly at the physical position.
func (p *MemoryPanel) DrawImage(raw []byte, x, y, width, height int) {
	stride := (width + 7) / 8
	for dy := 0; dy < height; dy++ {
		py := y + dy
		if py < 0 || py >= p.height {
			continue
		}
		for dx := 0; dx < width; dx++ {
			px := x + dx
			if px < 0 || px >= p.width {
				continue
			}
			bit := raw[dy*stride+dx/8] & (0x80 >> uint(dx%8))
			idx := py*((p.width+7)/8) + px/8
			mask := byte(0x80 >> uint(px%8))
			if bit != 0 {
				p.buf[idx] |= mask
			} else {
				p.buf[idx] &^= mask
			}
		}
	}
}

// CopyGrayscaleLSB snapshots fb as the LSB plane.
func (p *MemoryPanel) CopyGrayscaleLSB(fb []byte) {
	p.lsb = append(p.lsb[:0], fb...)
}

// CopyGrayscaleMSB snapshots fb as the MSB plane.
func (p *MemoryPanel) CopyGrayscaleMSB(fb []byte) {
	p.msb = append(p.msb[:0], fb...)
}

// DisplayGray is a no-op on the memory panel.
func (p *MemoryPanel) DisplayGray() {}

// GrayscaleRevert is a no-op on the memory panel.
func (p *MemoryPanel) GrayscaleRevert() {}

// CleanupGrayscale drops the stored planes.
func (p *MemoryPanel) CleanupGrayscale(fb []byte) {
	p.lsb = nil
	p.msb = nil
}

// LSBPlane returns the last snapshot taken by CopyGrayscaleLSB.
func (p *MemoryPanel) LSBPlane() []byte { return p.lsb }

// MSBPlane returns the last snapshot taken by CopyGrayscaleMSB.
func (p *MemoryPanel) MSBPlane() []byte { return p.msb }
