// Package archive packs generated artifacts into a zip file and clears the output folder.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Name returns the default archive name for a batch.
func Name(count int, format string, tabular bool) string {
	switch {
	case tabular:
		return fmt.Sprintf("qr_codes_csv.%s.zip", format)
	case count == 1:
		return fmt.Sprintf("qr_code.%s.zip", format)
	default:
		return fmt.Sprintf("qr_codes_%d.%s.zip", count, format)
	}
}

// Archive walks outputFolder recursively and stores every file ending in
// .format under its base name. Entries with equal base names are all written;
// extractors keep the last one. It returns the number of stored entries.
func Archive(outputFolder, archivePath, format string) (int, error) {
	if dir := filepath.Dir(archivePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create archive dir: %w", err)
		}
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	suffix := "." + format
	var stored int

	walkErr := filepath.WalkDir(outputFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		if err := addFile(zw, path, d); err != nil {
			return err
		}
		stored++
		return nil
	})

	closeErr := zw.Close()
	if err := out.Close(); closeErr == nil {
		closeErr = err
	}
	if walkErr != nil {
		return stored, fmt.Errorf("write archive: %w", walkErr)
	}
	if closeErr != nil {
		return stored, fmt.Errorf("close archive: %w", closeErr)
	}
	return stored, nil
}

func addFile(zw *zip.Writer, path string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = d.Name()
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Cleanup removes every regular file under outputFolder and keeps the
// directory tree. A missing folder is not an error.
func Cleanup(outputFolder string) (int, error) {
	var removed int
	err := filepath.WalkDir(outputFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == outputFolder && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("cleanup %s: %w", outputFolder, err)
	}
	return removed, nil
}
