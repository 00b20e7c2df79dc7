package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/siniestros/boletin/internal/logging"
)

// CopyAtomic copies src to dst so that a concurrent reader of dst sees
// either the previous content or the new content, never a partial write.
// The bytes are written to a temporary sibling of dst first and then
// renamed into place.
func CopyAtomic(dst, src string) error {
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	return WriteAtomic(dst, r)
}

// WriteAtomic writes the contents of r to dst via a temporary sibling
// file and a rename. The temporary file is removed if anything fails
// before the rename.
func WriteAtomic(dst string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}

	_, err = io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			logging.Error("Failed to remove temp file %v", tmp.Name())
		}
		return err
	}

	err = os.Rename(tmp.Name(), dst)
	if err != nil {
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			logging.Error("Failed to remove temp file %v", tmp.Name())
		}
		return err
	}

	return nil
}
