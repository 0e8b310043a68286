package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papyrix/papyrix/font"
)

// testFamily builds a 1-bit family covering ' '..'z': every glyph is a
// solid 4x4 block with a 5 pixel advance, except the blank space glyph.
func testFamily() *font.Family {
	const first = ' '
	const count = 'z' - ' ' + 1

	glyphs := make([]font.Glyph, count)
	var bitmap []byte
	for i := range glyphs {
		glyphs[i] = font.Glyph{
			Width:    4,
			Height:   4,
			Top:      4,
			AdvanceX: 5,
			Offset:   uint32(len(bitmap)),
		}
		bitmap = append(bitmap, 0xff, 0xff)
	}
	glyphs[0].Width = 0
	glyphs[0].Height = 0

	return font.NewFamily(&font.Metrics{
		First:      first,
		LineHeight: 6,
		Glyphs:     glyphs,
		Bitmap:     bitmap,
	})
}

func newTextRenderer() (*Renderer, *MemoryPanel) {
	r, panel := newTestRenderer()
	r.RegisterFont(1, testFamily())
	return r, panel
}

func TestTextMetrics(t *testing.T) {
	r, _ := newTextRenderer()

	assert.Equal(t, 15, r.TextWidth(1, "abc", font.Regular))
	assert.Equal(t, 6, r.LineHeight(1))
	assert.Equal(t, 5, r.SpaceWidth(1))

	// Unknown font ids measure zero.
	assert.Equal(t, 0, r.TextWidth(9, "abc", font.Regular))
	assert.Equal(t, 0, r.LineHeight(9))
}

func TestDrawText(t *testing.T) {
	r, _ := newTextRenderer()

	r.DrawText(1, 0, 0, "a", true, font.Regular)

	// Baseline sits at y+lineHeight; the 4x4 glyph hangs above it.
	for gy := 2; gy < 6; gy++ {
		for gx := 0; gx < 4; gx++ {
			require.True(t, r.PixelAt(gx, gy), "pixel (%d, %d)", gx, gy)
		}
	}
	assert.False(t, r.PixelAt(4, 2))
	assert.False(t, r.PixelAt(0, 6))
}

func TestDrawTextMissingFont(t *testing.T) {
	r, panel := newTestRenderer()

	r.DrawText(9, 0, 0, "abc", true, font.Regular)

	for _, b := range panel.FrameBuffer() {
		require.Equal(t, byte(0xff), b)
	}
}

func TestDrawTextNoPrintableChars(t *testing.T) {
	r, panel := newTextRenderer()

	r.DrawText(1, 0, 0, "éè", true, font.Regular)

	for _, b := range panel.FrameBuffer() {
		require.Equal(t, byte(0xff), b)
	}
}

func TestDrawTextFallbackGlyph(t *testing.T) {
	r1, p1 := newTextRenderer()
	r1.DrawText(1, 0, 0, "aéa", true, font.Regular)

	r2, p2 := newTextRenderer()
	r2.DrawText(1, 0, 0, "a?a", true, font.Regular)

	assert.Equal(t, p2.FrameBuffer(), p1.FrameBuffer())
}

func TestDrawTextInBoxSingleLine(t *testing.T) {
	r, _ := newTextRenderer()

	const x, y, w, h = 10, 10, 17, 6
	r.DrawTextInBox(1, x, y, w, h, "abcdefgh", false, true, font.Regular)

	// One line tall: nothing below the first line's glyphs, nothing
	// outside the box horizontally.
	for py := 0; py < 40; py++ {
		for px := 0; px < 60; px++ {
			if !r.PixelAt(px, py) {
				continue
			}
			require.True(t, px >= x && px < x+w, "pixel (%d, %d) outside box width", px, py)
			require.True(t, py >= y && py < y+h+r.LineHeight(1), "pixel (%d, %d) below first line", px, py)
		}
	}
}

func TestDrawTextInBoxWraps(t *testing.T) {
	r, _ := newTextRenderer()

	// Two glyphs per line; the third wraps.
	r.DrawTextInBox(1, 0, 0, 12, 0, "abc", false, true, font.Regular)

	assert.True(t, r.PixelAt(0, 2))
	assert.True(t, r.PixelAt(5, 2))
	// 'c' lands on the second line.
	assert.True(t, r.PixelAt(0, 8))
	assert.False(t, r.PixelAt(10, 2))
}

func TestDrawTextInBoxCentered(t *testing.T) {
	r, _ := newTextRenderer()

	// "ab" is 10 wide in a 20 wide box, so it starts at x+5.
	r.DrawTextInBox(1, 10, 0, 20, 6, "ab", true, true, font.Regular)

	assert.True(t, r.PixelAt(15, 2))
	assert.False(t, r.PixelAt(10, 2))
}

func TestTruncateText(t *testing.T) {
	r, _ := newTextRenderer()

	assert.Equal(t, "abc", r.TruncateText(1, "abc", 15, font.Regular))
	assert.Equal(t, "ab...", r.TruncateText(1, "abcdefgh", 30, font.Regular))
	assert.Equal(t, "", r.TruncateText(9, "abc", 100, font.Regular))
}

func TestDrawButtonHints(t *testing.T) {
	r, _ := newTextRenderer()

	r.DrawButtonHints(1, "ok", "", "back")

	bottom := r.ScreenHeight() - buttonBottomGap
	// First and third outlines drawn, second skipped.
	assert.True(t, r.PixelAt(buttonPositions[0], bottom))
	assert.True(t, r.PixelAt(buttonPositions[2], bottom))
	assert.False(t, r.PixelAt(buttonPositions[1]+buttonWidth/2, bottom))
}
