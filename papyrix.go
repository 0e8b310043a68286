/*
Package papyrix is the host-side library for preparing content for the
Papyrix e-ink reader.

It scans a library of books, converts each book's cover JPEG into the
device BMP format next to it and maintains the per-directory preview
index the reader's grid browser uses. Converted covers are cached in a
local database keyed by the source file's CRC so unchanged covers are
not reprocessed.
*/
package papyrix

import "log"

type Library struct {
	db     *CoverDB
	logger *log.Logger
}

func New(file string, logger *log.Logger) (*Library, error) {
	db, err := NewCoverDB(file)
	if err != nil {
		return nil, err
	}
	return &Library{
		db:     db,
		logger: logger,
	}, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}
