package bmp

import (
	"encoding/binary"
	"image/color"
	"io"
)

// Writer streams an indexed BMP one pixel row at a time. The headers
// and palette are written up front; the caller then packs each row with
// SetPixel and flushes it with WriteRow, top to bottom.
type Writer struct {
	w        io.Writer
	width    int
	height   int
	bpp      int
	rowBytes int
	row      []byte
	rows     int
}

// NewWriter starts an indexed BMP with an equally spaced grayscale
// palette. Supported depths are 1, 2 and 8 bits per pixel.
func NewWriter(w io.Writer, width, height, bitsPerPixel int) (*Writer, error) {
	return newWriter(w, width, height, bitsPerPixel, grayPalette(colorsUsed(bitsPerPixel)))
}

// NewWriterPalette starts an indexed BMP with a caller-supplied
// palette. The palette is padded with black to the full entry count
// for the depth.
func NewWriterPalette(w io.Writer, width, height, bitsPerPixel int, palette color.Palette) (*Writer, error) {
	n := colorsUsed(bitsPerPixel)
	if len(palette) > n {
		return nil, errPalette
	}
	entries := make([][3]byte, n)
	for i, c := range palette {
		r, g, b, _ := c.RGBA()
		entries[i] = [3]byte{byte(r >> 8), byte(g >> 8), byte(b >> 8)}
	}
	return newWriter(w, width, height, bitsPerPixel, entries)
}

func newWriter(w io.Writer, width, height, bitsPerPixel int, palette [][3]byte) (*Writer, error) {
	if !validDepth(bitsPerPixel) {
		return nil, errDepth
	}
	if width < 1 || height < 1 {
		return nil, errBounds
	}

	e := &Writer{
		w:        w,
		width:    width,
		height:   height,
		bpp:      bitsPerPixel,
		rowBytes: RowBytes(width, bitsPerPixel),
	}
	e.row = make([]byte, e.rowBytes)

	if err := e.writeHeader(palette); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Writer) writeHeader(palette [][3]byte) error {
	paletteLen := len(palette) * 4
	imageLen := e.rowBytes * e.height

	b := make([]byte, fileHeaderLen+infoHeaderLen+paletteLen)
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[2:], uint32(len(b)+imageLen))
	binary.LittleEndian.PutUint32(b[10:], uint32(len(b)))

	info := b[fileHeaderLen:]
	binary.LittleEndian.PutUint32(info[0:], infoHeaderLen)
	binary.LittleEndian.PutUint32(info[4:], uint32(e.width))
	// Negative height marks a top-down file, matching the order rows
	// are produced by the converter.
	binary.LittleEndian.PutUint32(info[8:], uint32(int32(-e.height)))
	binary.LittleEndian.PutUint16(info[12:], 1)
	binary.LittleEndian.PutUint16(info[14:], uint16(e.bpp))
	binary.LittleEndian.PutUint32(info[20:], uint32(imageLen))
	binary.LittleEndian.PutUint32(info[24:], pixelsPerMeter)
	binary.LittleEndian.PutUint32(info[28:], pixelsPerMeter)
	binary.LittleEndian.PutUint32(info[32:], uint32(len(palette)))
	binary.LittleEndian.PutUint32(info[36:], uint32(len(palette)))

	pal := b[fileHeaderLen+infoHeaderLen:]
	for i, c := range palette {
		pal[i*4+0] = c[2] // blue
		pal[i*4+1] = c[1] // green
		pal[i*4+2] = c[0] // red
	}

	_, err := e.w.Write(b)
	return err
}

// SetPixel packs the palette index v into the pending row at column x.
// Out-of-range columns are ignored.
func (e *Writer) SetPixel(x int, v uint8) {
	if x < 0 || x >= e.width {
		return
	}
	if e.bpp == 8 {
		e.row[x] = v
		return
	}
	bitPos := x * e.bpp
	byteIndex := bitPos >> 3
	bitOffset := uint(8 - e.bpp - (bitPos & 7))
	e.row[byteIndex] |= v << bitOffset
}

// WriteRow flushes the pending row and resets it for the next one.
func (e *Writer) WriteRow() error {
	if e.rows >= e.height {
		return errRowCount
	}
	if _, err := e.w.Write(e.row); err != nil {
		return err
	}
	for i := range e.row {
		e.row[i] = 0
	}
	e.rows++
	return nil
}

// Width returns the image width in pixels.
func (e *Writer) Width() int { return e.width }

// Height returns the image height in pixels.
func (e *Writer) Height() int { return e.height }
