package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBitmap serves pre-packed 2bpp rows.
type fakeBitmap struct {
	w, h    int
	rows    [][]byte
	topDown bool
}

func (b *fakeBitmap) Width() int    { return b.w }
func (b *fakeBitmap) Height() int   { return b.h }
func (b *fakeBitmap) RowBytes() int { return (b.w + 3) / 4 }
func (b *fakeBitmap) TopDown() bool { return b.topDown }

func (b *fakeBitmap) ReadRow(dst []byte, y int) error {
	copy(dst, b.rows[y])
	return nil
}

// gradientBitmap has levels 0,1,2,3 across each row.
func gradientBitmap(topDown bool) *fakeBitmap {
	row := []byte{0<<6 | 1<<4 | 2<<2 | 3}
	return &fakeBitmap{
		w:       4,
		h:       4,
		rows:    [][]byte{row, row, row, row},
		topDown: topDown,
	}
}

func TestDrawBitmapBWPlane(t *testing.T) {
	r, _ := newTestRenderer()

	r.DrawBitmap(gradientBitmap(true), 0, 0, 0, 0)

	for y := 0; y < 4; y++ {
		require.True(t, r.PixelAt(0, y))
		require.True(t, r.PixelAt(1, y))
		require.True(t, r.PixelAt(2, y))
		// Level 3 is white and paints nothing.
		require.False(t, r.PixelAt(3, y))
	}
}

func TestDrawBitmapGrayscalePlanes(t *testing.T) {
	r, _ := newTestRenderer()
	r.Clear(0x00)

	// On a gray pass painting means "set the bit", so start from an
	// all-black buffer to observe it.
	r.WithPlane(PlaneMSB).DrawBitmap(gradientBitmap(true), 0, 0, 0, 0)

	assert.True(t, r.PixelAt(0, 0))
	assert.False(t, r.PixelAt(1, 0))
	assert.False(t, r.PixelAt(2, 0))
	assert.True(t, r.PixelAt(3, 0))

	r.Clear(0x00)
	r.WithPlane(PlaneLSB).DrawBitmap(gradientBitmap(true), 0, 0, 0, 0)

	assert.True(t, r.PixelAt(0, 0))
	assert.False(t, r.PixelAt(1, 0))
	assert.True(t, r.PixelAt(2, 0))
	assert.True(t, r.PixelAt(3, 0))
}

func TestDrawBitmapBottomUp(t *testing.T) {
	bm := &fakeBitmap{
		w: 4,
		h: 2,
		// File row 0 is the bottom image row.
		rows: [][]byte{
			{0x00}, // all black
			{0xff}, // all white
		},
	}

	r, _ := newTestRenderer()
	r.DrawBitmap(bm, 0, 0, 0, 0)

	for x := 0; x < 4; x++ {
		assert.False(t, r.PixelAt(x, 0))
		assert.True(t, r.PixelAt(x, 1))
	}
}

func TestDrawBitmapDownscale(t *testing.T) {
	// 8x8 all black, fit into 4x4.
	row := []byte{0x00, 0x00}
	rows := make([][]byte, 8)
	for i := range rows {
		rows[i] = row
	}
	bm := &fakeBitmap{w: 8, h: 8, rows: rows, topDown: true}

	r, _ := newTestRenderer()
	r.DrawBitmap(bm, 0, 0, 4, 4)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			require.True(t, r.PixelAt(x, y))
		}
	}
	for i := 0; i < 8; i++ {
		require.False(t, r.PixelAt(4, i))
		require.False(t, r.PixelAt(i, 4))
	}
}
