package bmp

import (
	"image"
	"io"
)

// Decode reads a whole BMP from r and returns it as an image.Image.
// It is a convenience wrapper around Reader for host-side tooling; the
// device itself only ever streams rows.
func Decode(r io.Reader) (image.Image, error) {
	d, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	m := image.NewPaletted(image.Rect(0, 0, d.width, d.height), d.palette)
	indices := make([]byte, d.width)
	for y := 0; y < d.height; y++ {
		if err := d.readIndexRow(indices, y); err != nil {
			return nil, err
		}
		dy := y
		if !d.topDown {
			dy = d.height - 1 - y
		}
		copy(m.Pix[dy*m.Stride:], indices)
	}
	return m, nil
}

// DecodeConfig returns the color model and dimensions of a BMP without
// decoding the pixel rows.
func DecodeConfig(r io.Reader) (image.Config, error) {
	d, err := NewReader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
