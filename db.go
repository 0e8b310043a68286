package papyrix

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// CoverDB caches generated cover previews keyed by the CRC of the
// source JPEG, so rescanning a library only reprocesses covers that
// actually changed.
type CoverDB struct {
	db *sql.DB
}

func NewCoverDB(file string) (*CoverDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS cover (id INTEGER PRIMARY KEY NOT NULL, crc TEXT NOT NULL UNIQUE, preview BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	return &CoverDB{
		db: db,
	}, nil
}

func (db *CoverDB) Close() error {
	return db.db.Close()
}

// FindPreviewByCRC returns the cached preview for the given source
// CRC, or nil if the cover has not been seen before.
func (db *CoverDB) FindPreviewByCRC(crc string) ([]byte, error) {
	var preview []byte
	switch err := db.db.QueryRow("SELECT preview FROM cover WHERE crc = ?", crc).Scan(&preview); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return preview, nil
	default:
		return nil, err
	}
}

// SetPreview stores the preview for the given source CRC, replacing
// any previous entry.
func (db *CoverDB) SetPreview(crc string, preview []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO cover (crc, preview) VALUES (?, ?)", crc, preview); err != nil {
		return err
	}
	return nil
}
