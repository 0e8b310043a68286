/*
Package bmp implements the indexed Windows BMP variant the Papyrix
device uses for cover art and other pre-rendered assets.

Files are written top-down (negative height) with a 14-byte file
header, a 40-byte BITMAPINFOHEADER and an equally spaced grayscale
palette of 2, 4 or 256 entries. Pixel rows are padded to a 4-byte
boundary and sub-byte depths are packed most significant bits first.
Both the encoder and the decoder stream one row at a time so they can
run within a few kilobytes on the device.
*/
package bmp

import "errors"

const (
	fileHeaderLen = 14
	infoHeaderLen = 40

	// Pixels per meter at 72 DPI, written to both density fields.
	pixelsPerMeter = 2835
)

var (
	errDepth       = errors.New("bmp: unsupported bit depth")
	errBounds      = errors.New("bmp: dimensions out of range")
	errSignature   = errors.New("bmp: bad signature")
	errCompression = errors.New("bmp: compressed files not supported")
	errRowOrder    = errors.New("bmp: rows must be read in file order")
	errRowCount    = errors.New("bmp: too many rows written")
	errPalette     = errors.New("bmp: palette too large for bit depth")
)

func validDepth(bitsPerPixel int) bool {
	return bitsPerPixel == 1 || bitsPerPixel == 2 || bitsPerPixel == 8
}

// RowBytes returns the padded byte length of one pixel row at the
// given depth.
func RowBytes(width, bitsPerPixel int) int {
	switch bitsPerPixel {
	case 8:
		return (width + 3) / 4 * 4
	case 2:
		return (width*2 + 31) / 32 * 4
	default:
		return (width + 31) / 32 * 4
	}
}

func colorsUsed(bitsPerPixel int) int {
	return 1 << uint(bitsPerPixel)
}

// grayPalette returns n equally spaced gray levels, black first.
func grayPalette(n int) [][3]byte {
	p := make([][3]byte, n)
	for i := range p {
		v := byte(i * 255 / (n - 1))
		p[i] = [3]byte{v, v, v}
	}
	return p
}
