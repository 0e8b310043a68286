package shelf

import (
	"fmt"
	"hash/crc32"
	"strings"
)

const filenameTrim = 56

// CRCFilename computes the CRC of a book filename the way the reader
// firmware does: upper-cased, truncated to 56 bytes and zero padded.
func CRCFilename(filename string) uint32 {
	var b [filenameTrim]byte
	copy(b[:], []byte(fmt.Sprintf("%.*s", filenameTrim, strings.ToUpper(filename))))
	return crc32.ChecksumIEEE(b[:])
}
