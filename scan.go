package papyrix

import (
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/papyrix/papyrix/convert"
	"github.com/papyrix/papyrix/shelf"
)

func isCoverImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

func (l *Library) findDirectories(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(dir string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a directory
			if !info.Mode().IsDir() {
				return nil
			}

			select {
			case out <- dir:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// coverWorker processes book directories: every cover JPEG in the top
// level of the directory is converted to a device BMP next to it, and
// the directory's preview index is rebuilt. Covers whose CRC is
// already cached and whose BMP still exists are not reprocessed.
func (l *Library) coverWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for dir := range in {
			idx := shelf.New()
			if err := filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
				if info.Name()[0] == '.' {
					if info.Mode().IsDir() {
						return filepath.SkipDir
					}
					return nil
				}

				// Ignore anything that isn't a normal file
				if !info.Mode().IsRegular() {
					return nil
				}

				// Only covers in the "top" directory belong to this shelf
				if filepath.Dir(file) != dir || !isCoverImage(file) {
					return nil
				}

				crc, err := crcFile(file)
				if err != nil {
					return err
				}

				preview, err := l.db.FindPreviewByCRC(crc)
				if err != nil {
					return err
				}

				bmpFile := strings.TrimSuffix(file, filepath.Ext(file)) + ".bmp"
				if preview == nil || !fileExists(bmpFile) {
					if err := l.convertCover(file, bmpFile); err != nil {
						// A broken cover should not abort the scan.
						l.logger.Printf("Failed to convert \"%s\": %v\n", file, err)
						os.Remove(bmpFile)
						return nil
					}

					preview, err = l.makePreview(file)
					if err != nil {
						l.logger.Printf("Failed to preview \"%s\": %v\n", file, err)
						return nil
					}

					if err := l.db.SetPreview(crc, preview); err != nil {
						return err
					}
				}

				name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
				return idx.Set(shelf.CRCFilename(name), preview)
			}); err != nil {
				errc <- err
				return
			}

			if idx.Length() > 0 {
				b, err := idx.MarshalBinary()
				if err != nil {
					errc <- err
					return
				}

				if err := os.WriteFile(filepath.Join(dir, shelf.Filename), b, 0o644); err != nil {
					errc <- err
					return
				}
			}
		}
	}()
	return errc, nil
}

// convertCover converts one JPEG into the device BMP format using the
// cover defaults.
func (l *Library) convertCover(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if err := convert.ToBMP(in, out, convert.DefaultOptions()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (l *Library) makePreview(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	return previewTile(m)
}

func fileExists(file string) bool {
	info, err := os.Stat(file)
	return err == nil && info.Mode().IsRegular()
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks the library under path, converting covers and writing the
// preview index in each book directory.
func (l *Library) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	dirs, errc, err := l.findDirectories(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < 10; i++ {
		errc, err := l.coverWorker(ctx, dirs)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
