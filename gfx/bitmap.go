package gfx

import (
	"bytes"
	"math"

	"github.com/32bitkid/bitreader"
)

// Bitmap is a row-streaming image source, typically a bmp.Reader over
// a converted cover file. Rows are pulled one at a time in file order
// as 2-bit gray levels packed four pixels per byte; the renderer never
// holds more than one decoded row.
type Bitmap interface {
	Width() int
	Height() int
	RowBytes() int
	TopDown() bool
	ReadRow(dst []byte, y int) error
}

// DrawBitmap blits a bitmap with its top-left corner at (x, y),
// uniformly downscaled by nearest neighbor when it exceeds maxWidth or
// maxHeight (either may be 0 for no limit). Gray levels are projected
// onto the renderer's plane the same way 2-bit glyphs are.
func (r *Renderer) DrawBitmap(bm Bitmap, x, y, maxWidth, maxHeight int) {
	scale := 1.0
	scaled := false
	if maxWidth > 0 && bm.Width() > maxWidth {
		scale = float64(maxWidth) / float64(bm.Width())
		scaled = true
	}
	if maxHeight > 0 && bm.Height() > maxHeight {
		if s := float64(maxHeight) / float64(bm.Height()); s < scale {
			scale = s
		}
		scaled = true
	}

	outputRow := make([]byte, (bm.Width()+3)/4)

	for bmpY := 0; bmpY < bm.Height(); bmpY++ {
		// Bottom-up files store the last image row first.
		screenY := y + bm.Height() - 1 - bmpY
		if bm.TopDown() {
			screenY = y + bmpY
		}
		if scaled {
			screenY = int(math.Floor(float64(screenY) * scale))
		}
		if screenY >= r.ScreenHeight() {
			break
		}

		if err := bm.ReadRow(outputRow, bmpY); err != nil {
			Logger().Warn("gfx: failed to read bitmap row", "row", bmpY, "error", err)
			return
		}

		br := bitreader.NewReader(bytes.NewReader(outputRow))
		for bmpX := 0; bmpX < bm.Width(); bmpX++ {
			level, err := br.Read8(2)
			if err != nil {
				break
			}

			screenX := x + bmpX
			if scaled {
				screenX = int(math.Floor(float64(screenX) * scale))
			}
			if screenX >= r.ScreenWidth() {
				break
			}

			if !paints(level, r.plane) {
				continue
			}
			if r.plane == PlaneBW {
				r.DrawPixel(screenX, screenY, true)
			} else {
				r.DrawPixel(screenX, screenY, false)
			}
		}
	}
}
