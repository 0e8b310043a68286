/*
Package shelf implements the small preview index written to each book
directory. The reader's grid browser memory-maps this one file instead
of opening every cover BMP: a fixed CRC table, a parallel offset table
and the packed preview tiles, all at known offsets.
*/
package shelf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
)

const (
	// Filename is the expected filename used when writing to disk
	Filename   = "covers.pix"
	maxEntries = 256

	// PreviewWidth and PreviewHeight are the grid browser tile
	// dimensions. PreviewSize is the byte length of one tile packed at
	// 2 bits per pixel.
	PreviewWidth  = 96
	PreviewHeight = 128
	PreviewSize   = PreviewWidth * PreviewHeight / 4
)

// DB is the preview index object. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type DB struct {
	checksums map[uint32]uint16
	previews  [][]byte
}

// New returns an empty preview index
func New() *DB {
	return &DB{
		checksums: make(map[uint32]uint16),
	}
}

// Length returns the number of checksums in the index
func (db *DB) Length() int {
	return len(db.checksums)
}

// Set stores the provided preview tile for the given CRC
func (db *DB) Set(crc uint32, preview []byte) error {
	if len(preview) != PreviewSize {
		return errors.New("incorrect length")
	}
	if _, ok := db.checksums[crc]; !ok {
		db.previews = append(db.previews, preview)
		db.checksums[crc] = uint16(len(db.previews) - 1)
	}
	return nil
}

// MarshalBinary encodes the index into binary form and returns the result
func (db *DB) MarshalBinary() ([]byte, error) {
	length := len(db.checksums)

	if length > maxEntries {
		return nil, fmt.Errorf("more than %d entries", maxEntries)
	}

	keys := make([]uint32, 0, len(db.checksums))
	for k := range db.checksums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	b := new(bytes.Buffer)

	// Write out CRC values
	if err := binary.Write(b, binary.LittleEndian, &keys); err != nil {
		return nil, err
	}
	// Pad the CRC table with 0xff's
	if _, err := b.Write(bytes.Repeat([]byte{0xff, 0xff, 0xff, 0xff}, maxEntries-length)); err != nil {
		return nil, err
	}

	// Write out preview indices
	for _, k := range keys {
		v := db.checksums[k]
		if err := binary.Write(b, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
	}
	// Pad the index table with 0xff's
	if _, err := b.Write(bytes.Repeat([]byte{0xff, 0xff}, maxEntries-length)); err != nil {
		return nil, err
	}

	// Write out preview tiles
	for _, p := range db.previews {
		if _, err := b.Write(p); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the index from binary form
func (db *DB) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	db.checksums = make(map[uint32]uint16)
	db.previews = nil

	var keys []uint32
	for i := 0; i < maxEntries; i++ {
		var crc uint32
		if err := binary.Read(r, binary.LittleEndian, &crc); err != nil {
			return err
		}
		if crc != 0xffffffff {
			keys = append(keys, crc)
		}
	}

	maxOffset := -1
	for i := 0; i < maxEntries; i++ {
		var offset uint16
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return err
		}
		if offset != 0xffff && i < len(keys) {
			db.checksums[keys[i]] = offset
			if int(offset) > maxOffset {
				maxOffset = int(offset)
			}
		}
	}

	for i := 0; i <= maxOffset; i++ {
		preview := make([]byte, PreviewSize)
		if n, err := r.Read(preview); n != PreviewSize || (err != nil && err != io.EOF) {
			return errors.New("insufficient data")
		}
		db.previews = append(db.previews, preview)
	}

	return nil
}

// Preview returns the preview tile stored for the given CRC, or nil.
func (db *DB) Preview(crc uint32) []byte {
	i, ok := db.checksums[crc]
	if !ok {
		return nil
	}
	return db.previews[i]
}
