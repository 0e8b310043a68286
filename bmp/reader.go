package bmp

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"io"

	"github.com/32bitkid/bitreader"
)

// Reader streams an indexed BMP one row at a time in file order. It
// never holds more than one decoded row, which is what lets the device
// blit full-screen images through a small scratch buffer.
type Reader struct {
	r        io.Reader
	width    int
	height   int
	bpp      int
	rowBytes int
	topDown  bool
	palette  color.Palette
	levels   []byte // palette index -> gray level 0..3
	scratch  []byte
	next     int
}

// NewReader parses the headers and palette from r, leaving it
// positioned at the first pixel row.
func NewReader(r io.Reader) (*Reader, error) {
	var hdr [fileHeaderLen + infoHeaderLen]byte
	if err := readFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if hdr[0] != 'B' || hdr[1] != 'M' {
		return nil, errSignature
	}

	info := hdr[fileHeaderLen:]
	width := int(int32(binary.LittleEndian.Uint32(info[4:])))
	rawHeight := int(int32(binary.LittleEndian.Uint32(info[8:])))
	bpp := int(binary.LittleEndian.Uint16(info[14:]))
	compression := binary.LittleEndian.Uint32(info[16:])
	colors := int(binary.LittleEndian.Uint32(info[32:]))

	if !validDepth(bpp) {
		return nil, errDepth
	}
	if compression != 0 {
		return nil, errCompression
	}
	if width < 1 || rawHeight == 0 {
		return nil, errBounds
	}

	d := &Reader{
		r:        r,
		width:    width,
		height:   rawHeight,
		bpp:      bpp,
		rowBytes: RowBytes(width, bpp),
		topDown:  rawHeight < 0,
	}
	if d.topDown {
		d.height = -rawHeight
	}

	if colors == 0 {
		colors = colorsUsed(bpp)
	}
	if colors > colorsUsed(bpp) {
		return nil, errPalette
	}
	if err := d.readPalette(colors); err != nil {
		return nil, err
	}

	// Skip anything between the palette and the pixel offset.
	offset := int(binary.LittleEndian.Uint32(hdr[10:]))
	if skip := offset - fileHeaderLen - infoHeaderLen - colors*4; skip > 0 {
		if err := readFull(r, make([]byte, skip)); err != nil {
			return nil, err
		}
	}

	d.scratch = make([]byte, d.rowBytes)
	return d, nil
}

func (d *Reader) readPalette(colors int) error {
	raw := make([]byte, colors*4)
	if err := readFull(d.r, raw); err != nil {
		return err
	}
	d.palette = make(color.Palette, colors)
	d.levels = make([]byte, colors)
	for i := 0; i < colors; i++ {
		b, g, r := raw[i*4], raw[i*4+1], raw[i*4+2]
		d.palette[i] = color.RGBA{r, g, b, 0xff}
		lum := (299*int(r) + 587*int(g) + 114*int(b)) / 1000
		d.levels[i] = byte(lum >> 6)
	}
	return nil
}

// Width returns the image width in pixels.
func (d *Reader) Width() int { return d.width }

// Height returns the image height in pixels.
func (d *Reader) Height() int { return d.height }

// RowBytes returns the padded byte length of one stored pixel row.
func (d *Reader) RowBytes() int { return d.rowBytes }

// TopDown reports whether row 0 in the file is the top image row.
func (d *Reader) TopDown() bool { return d.topDown }

// Palette returns the file's palette.
func (d *Reader) Palette() color.Palette { return d.palette }

// ReadRow decodes file row y into dst as 2-bit gray levels packed four
// pixels per byte, most significant pixel first. Rows must be requested
// in file order; dst needs (Width()+3)/4 bytes.
func (d *Reader) ReadRow(dst []byte, y int) error {
	indices := make([]byte, d.width)
	if err := d.readIndexRow(indices, y); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = 0
	}
	for x, idx := range indices {
		level := byte(3)
		if int(idx) < len(d.levels) {
			level = d.levels[idx]
		}
		dst[x/4] |= level << uint(6-(x*2)%8)
	}
	return nil
}

// readIndexRow reads the next stored row and unpacks the raw palette
// indices into dst, which needs Width() bytes.
func (d *Reader) readIndexRow(dst []byte, y int) error {
	if y != d.next || y >= d.height {
		return errRowOrder
	}
	if err := readFull(d.r, d.scratch); err != nil {
		return err
	}
	d.next++

	if d.bpp == 8 {
		copy(dst, d.scratch[:d.width])
		return nil
	}
	br := bitreader.NewReader(bytes.NewReader(d.scratch))
	for x := 0; x < d.width; x++ {
		v, err := br.Read8(uint(d.bpp))
		if err != nil {
			return err
		}
		dst[x] = v
	}
	return nil
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
