package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() (*Renderer, *MemoryPanel) {
	panel := NewMemoryPanel(800, 480)
	return New(panel), panel
}

func TestScreenDimensions(t *testing.T) {
	r, _ := newTestRenderer()

	assert.Equal(t, 480, r.ScreenWidth())
	assert.Equal(t, 800, r.ScreenHeight())
	assert.Equal(t, 100*480, r.BufferSize())
}

func TestDrawPixelRemap(t *testing.T) {
	tables := []struct {
		x, y int
	}{
		{0, 0},
		{479, 0},
		{0, 799},
		{479, 799},
		{123, 456},
	}

	for _, table := range tables {
		r, panel := newTestRenderer()
		r.DrawPixel(table.x, table.y, true)

		px, py := table.y, 479-table.x
		fb := panel.FrameBuffer()
		idx := py*100 + px/8
		mask := byte(0x80 >> uint(px%8))
		assert.Zero(t, fb[idx]&mask, "logical (%d, %d) should land at physical (%d, %d)", table.x, table.y, px, py)

		// No other byte was touched.
		for i, b := range fb {
			if i == idx {
				continue
			}
			require.Equal(t, byte(0xff), b)
		}
	}
}

func TestDrawPixelReadBack(t *testing.T) {
	r, _ := newTestRenderer()

	r.DrawPixel(123, 456, true)
	assert.True(t, r.PixelAt(123, 456))

	r.DrawPixel(123, 456, false)
	assert.False(t, r.PixelAt(123, 456))
}

func TestDrawPixelOutOfRange(t *testing.T) {
	r, panel := newTestRenderer()

	coords := []struct {
		x, y int
	}{
		{-1, 0},
		{0, -1},
		{480, 0},
		{0, 800},
		{-1000000, -1000000},
		{1 << 20, 1 << 20},
	}
	for _, c := range coords {
		r.DrawPixel(c.x, c.y, true)
	}

	for _, b := range panel.FrameBuffer() {
		require.Equal(t, byte(0xff), b)
	}
}

func TestDrawPixelDetachedPanel(t *testing.T) {
	panel := NewMemoryPanel(800, 480)
	panel.Detach()
	r := New(panel)

	r.DrawPixel(10, 10, true)
	assert.False(t, r.PixelAt(10, 10))
}

func TestDrawLineAxisAligned(t *testing.T) {
	r, _ := newTestRenderer()

	// Endpoints are normalized, so reversed order draws the same line.
	r.DrawLine(10, 5, 2, 5, true)
	for x := 2; x <= 10; x++ {
		assert.True(t, r.PixelAt(x, 5))
	}
	assert.False(t, r.PixelAt(1, 5))
	assert.False(t, r.PixelAt(11, 5))

	r.DrawLine(20, 30, 20, 25, true)
	for y := 25; y <= 30; y++ {
		assert.True(t, r.PixelAt(20, y))
	}
}

func TestDrawLineDiagonalUnsupported(t *testing.T) {
	r, panel := newTestRenderer()

	r.DrawLine(0, 0, 10, 10, true)

	for _, b := range panel.FrameBuffer() {
		require.Equal(t, byte(0xff), b)
	}
}

func TestFillRect(t *testing.T) {
	r, _ := newTestRenderer()

	r.FillRect(10, 20, 5, 4, true)

	for y := 20; y < 24; y++ {
		for x := 10; x < 15; x++ {
			require.True(t, r.PixelAt(x, y))
		}
	}
	assert.False(t, r.PixelAt(9, 20))
	assert.False(t, r.PixelAt(15, 20))
	assert.False(t, r.PixelAt(10, 19))
	assert.False(t, r.PixelAt(10, 24))
}

func TestDrawRectOutlineOnly(t *testing.T) {
	r, _ := newTestRenderer()

	r.DrawRect(10, 10, 6, 5, true)

	assert.True(t, r.PixelAt(10, 10))
	assert.True(t, r.PixelAt(15, 14))
	assert.True(t, r.PixelAt(10, 14))
	assert.True(t, r.PixelAt(15, 10))
	assert.False(t, r.PixelAt(12, 12))
}

func TestInvertScreen(t *testing.T) {
	r, _ := newTestRenderer()

	r.DrawPixel(0, 0, true)
	r.InvertScreen()

	assert.False(t, r.PixelAt(0, 0))
	assert.True(t, r.PixelAt(100, 100))
}

func TestDisplayWindowRemap(t *testing.T) {
	panel := NewMemoryPanel(800, 480)
	r := New(panel)

	// The remap itself is exercised through DrawPixel; DisplayWindow
	// must not panic for a full-screen flush.
	r.DisplayWindow(0, 0, r.ScreenWidth(), r.ScreenHeight())
}

func TestGrayscalePlaneCopies(t *testing.T) {
	panel := NewMemoryPanel(800, 480)
	r := New(panel)

	r.DrawPixel(0, 0, true)
	r.CopyGrayscaleMSBBuffers()
	r.CopyGrayscaleLSBBuffers()

	require.Equal(t, panel.FrameBuffer(), panel.MSBPlane())
	require.Equal(t, panel.FrameBuffer(), panel.LSBPlane())
}
