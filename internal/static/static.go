// Package static opens files for transmission and sorts failures into the
// two outcomes a client can see: the file is not there, or it could not be read.
package static

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"syscall"
)

var (
	ErrNotFound = errors.New("file not found")
	ErrInternal = errors.New("file could not be read")
)

// Open opens a regular file for reading. Directories count as not found.
func Open(path string) (*os.File, fs.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, classify(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	return f, info, nil
}

// Serve writes the file at path to w. Content type comes from the file
// extension; range and conditional requests are handled by http.ServeContent.
// An error is returned only when nothing has been written yet.
func Serve(w http.ResponseWriter, r *http.Request, path string) error {
	f, info, err := Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}

func classify(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
