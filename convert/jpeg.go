package convert

import (
	"errors"
	"image"
	"io"

	_ "image/jpeg"
)

// Info describes a decoded frame as reported by the block decoder.
type Info struct {
	Width      int
	Height     int
	Components int
	MCUWidth   int
	MCUHeight  int
	MCUsPerRow int
	MCUsPerCol int
}

// MCU holds one decoded minimum coded unit. Component samples are laid
// out in 8x8 block order: blocks left to right then top to bottom
// within the MCU, each block 64 row-major samples. Grayscale frames
// fill R only.
type MCU struct {
	R, G, B []byte
}

// MCUDecoder is a pull-based block decoder. DecodeMCU fills the given
// MCU with the next unit in scan order, growing its buffers as needed.
type MCUDecoder interface {
	Info() Info
	DecodeMCU(*MCU) error
}

var errNoMoreBlocks = errors.New("convert: no more blocks")

const readAhead = 512

// byteSource adapts a stream to the decoder's pull contract through a
// fixed read-ahead buffer: the stream is only touched once the buffer
// drains. A drained stream reports zero bytes and no error, which the
// decoder treats as a clean end of data.
type byteSource struct {
	r      io.Reader
	buf    [readAhead]byte
	pos    int
	filled int
}

func newByteSource(r io.Reader) *byteSource {
	return &byteSource{r: r}
}

// Next copies up to len(p) bytes into p. It returns (0, nil) at end of
// data.
func (s *byteSource) Next(p []byte) (int, error) {
	if s.pos >= s.filled {
		n, err := s.r.Read(s.buf[:])
		if n == 0 {
			if err != nil && err != io.EOF {
				return 0, err
			}
			return 0, nil
		}
		s.filled = n
		s.pos = 0
	}
	n := copy(p, s.buf[s.pos:s.filled])
	s.pos += n
	return n, nil
}

// Read lets image decoders consume the source directly; the end of
// data surfaces as io.EOF.
func (s *byteSource) Read(p []byte) (int, error) {
	n, err := s.Next(p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// frameDecoder serves a fully decoded image as a sequence of 8x8 MCUs,
// zero-padded at the right and bottom edges.
type frameDecoder struct {
	img  image.Image
	info Info
	next int
}

func newFrameDecoder(r io.Reader) (MCUDecoder, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	components := 3
	if _, ok := img.(*image.Gray); ok {
		components = 1
	}

	return &frameDecoder{
		img: img,
		info: Info{
			Width:      b.Dx(),
			Height:     b.Dy(),
			Components: components,
			MCUWidth:   8,
			MCUHeight:  8,
			MCUsPerRow: (b.Dx() + 7) / 8,
			MCUsPerCol: (b.Dy() + 7) / 8,
		},
	}, nil
}

func (d *frameDecoder) Info() Info { return d.info }

func (d *frameDecoder) DecodeMCU(m *MCU) error {
	if d.next >= d.info.MCUsPerRow*d.info.MCUsPerCol {
		return errNoMoreBlocks
	}
	mcuX := d.next % d.info.MCUsPerRow
	mcuY := d.next / d.info.MCUsPerRow
	d.next++

	size := d.info.MCUWidth * d.info.MCUHeight
	m.R = growBuf(m.R, size)
	m.G = growBuf(m.G, size)
	m.B = growBuf(m.B, size)

	b := d.img.Bounds()
	for y := 0; y < d.info.MCUHeight; y++ {
		for x := 0; x < d.info.MCUWidth; x++ {
			off := y*8 + x
			sx := b.Min.X + mcuX*d.info.MCUWidth + x
			sy := b.Min.Y + mcuY*d.info.MCUHeight + y
			if sx >= b.Max.X || sy >= b.Max.Y {
				m.R[off], m.G[off], m.B[off] = 0, 0, 0
				continue
			}
			r, g, bl, _ := d.img.At(sx, sy).RGBA()
			m.R[off] = uint8(r >> 8)
			m.G[off] = uint8(g >> 8)
			m.B[off] = uint8(bl >> 8)
		}
	}
	return nil
}

func growBuf(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}
