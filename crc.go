package papyrix

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// crcFile returns the CRC-32 of the file contents as an upper-case hex
// string, the key format used by the cover cache.
func crcFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := crc32.NewIEEE()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%.*X", crc32.Size<<1, h.Sum(nil)), nil
}
