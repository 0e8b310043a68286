package font

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var magic = [4]byte{'P', 'X', 'F', 'T'}

const flagTwoBit = 1 << 0

var errMagic = errors.New("font: bad magic")

type tableHeader struct {
	Magic      [4]byte
	Flags      uint8
	_          uint8
	LineHeight uint16
	First      uint32
	Count      uint16
	_          uint16
	BitmapLen  uint32
}

type glyphRecord struct {
	Width    uint8
	Height   uint8
	Left     int8
	Top      int8
	AdvanceX uint8
	_        uint8
	Offset   uint32
}

// ReadMetrics parses one packed style table from r: a fixed header,
// the glyph records, then the shared bitmap blob.
func ReadMetrics(r io.Reader) (*Metrics, error) {
	var h tableHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.Magic != magic {
		return nil, errMagic
	}

	records := make([]glyphRecord, h.Count)
	if err := binary.Read(r, binary.LittleEndian, &records); err != nil {
		return nil, err
	}

	bitmap := make([]byte, h.BitmapLen)
	if _, err := io.ReadFull(r, bitmap); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	m := &Metrics{
		First:      rune(h.First),
		LineHeight: int(h.LineHeight),
		TwoBit:     h.Flags&flagTwoBit != 0,
		Glyphs:     make([]Glyph, h.Count),
		Bitmap:     bitmap,
	}

	for i, rec := range records {
		if int64(rec.Offset) > int64(len(bitmap)) {
			return nil, fmt.Errorf("font: glyph %d offset outside bitmap", i)
		}
		m.Glyphs[i] = Glyph{
			Width:    rec.Width,
			Height:   rec.Height,
			Left:     rec.Left,
			Top:      rec.Top,
			AdvanceX: rec.AdvanceX,
			Offset:   rec.Offset,
		}
	}

	return m, nil
}

// WriteMetrics writes m in the format ReadMetrics parses. It is the
// encoder half used by the host-side font build tooling.
func WriteMetrics(w io.Writer, m *Metrics) error {
	h := tableHeader{
		Magic:      magic,
		LineHeight: uint16(m.LineHeight),
		First:      uint32(m.First),
		Count:      uint16(len(m.Glyphs)),
		BitmapLen:  uint32(len(m.Bitmap)),
	}
	if m.TwoBit {
		h.Flags |= flagTwoBit
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}

	records := make([]glyphRecord, len(m.Glyphs))
	for i, g := range m.Glyphs {
		records[i] = glyphRecord{
			Width:    g.Width,
			Height:   g.Height,
			Left:     g.Left,
			Top:      g.Top,
			AdvanceX: g.AdvanceX,
			Offset:   g.Offset,
		}
	}
	if err := binary.Write(w, binary.LittleEndian, &records); err != nil {
		return err
	}

	_, err := w.Write(m.Bitmap)
	return err
}
