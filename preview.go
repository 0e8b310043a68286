package papyrix

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"

	"github.com/papyrix/papyrix/shelf"
)

// previewTile renders a cover image into one packed grid-browser tile:
// scaled to fit the tile box preserving aspect ratio on a white
// background, quantized to four adaptive gray levels and packed at 2
// bits per pixel, darkest level first.
func previewTile(m image.Image) ([]byte, error) {
	bounds := image.Rect(0, 0, shelf.PreviewWidth, shelf.PreviewHeight)
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)

	xdraw.ApproxBiLinear.Scale(dst, fitRect(m.Bounds(), bounds), m, m.Bounds(), xdraw.Src, nil)

	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, 4), dst)
	pm := image.NewPaletted(bounds, palette)
	draw.Draw(pm, bounds, dst, image.Point{}, draw.Src)

	levels := paletteLevels(palette)

	out := make([]byte, shelf.PreviewSize)
	for y := 0; y < shelf.PreviewHeight; y++ {
		for x := 0; x < shelf.PreviewWidth; x++ {
			bitPos := (y*shelf.PreviewWidth + x) * 2
			out[bitPos>>3] |= levels[pm.ColorIndexAt(x, y)] << uint(6-(bitPos&7))
		}
	}
	return out, nil
}

// paletteLevels maps each palette index to a 2-bit gray level by
// ranking the entries on luminance, darkest first. An adaptive palette
// keeps contrast in mostly-dark or mostly-light covers.
func paletteLevels(p color.Palette) []byte {
	type entry struct {
		index int
		lum   uint32
	}
	entries := make([]entry, len(p))
	for i, c := range p {
		r, g, b, _ := c.RGBA()
		entries[i] = entry{i, 299*(r>>8) + 587*(g>>8) + 114*(b>>8)}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].lum < entries[j].lum })

	levels := make([]byte, len(p))
	for rank, e := range entries {
		if len(entries) > 1 {
			levels[e.index] = byte(rank * 3 / (len(entries) - 1))
		}
	}
	return levels
}

// fitRect centers the largest aspect-preserving scale of src inside
// box.
func fitRect(src, box image.Rectangle) image.Rectangle {
	w, h := box.Dx(), src.Dy()*box.Dx()/src.Dx()
	if h > box.Dy() {
		w, h = src.Dx()*box.Dy()/src.Dy(), box.Dy()
	}
	x := (box.Dx() - w) / 2
	y := (box.Dy() - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
