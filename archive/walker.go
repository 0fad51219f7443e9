// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// MaxEntrySize limits amount of data ReadFile is willing to decompress for a
// single entry.
const MaxEntrySize = 256 << 20

var ErrTooLarge = errors.New("zip entry is too large")

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The file argument is the zip.File structure for file in
// archive which satisfies match condition. If an error is returned,
// processing stops.
type WalkFunc func(file *zip.File) error

// Walk walks the all files in the archive which satisfy match condition,
// calling walkFn for each item. Archives having entries with path traversal
// components ("..") or absolute paths are rejected.
func Walk(r *zip.Reader, pattern string, walkFn WalkFunc) error {
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) {
			if err := walkFn(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Find returns entry with exact name. Leading "/" and "./" are ignored.
func Find(r *zip.Reader, name string) (*zip.File, error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	for _, f := range r.File {
		if f.FileHeader.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("zip entry %q: %w", name, fs.ErrNotExist)
}

// ReadFile reads complete content of the named entry.
func ReadFile(r *zip.Reader, name string) ([]byte, error) {
	f, err := Find(r, name)
	if err != nil {
		return nil, err
	}
	return Read(f)
}

// Read decompresses single entry refusing entries larger than MaxEntrySize.
func Read(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q: %w", f.Name, ErrTooLarge)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("zip entry %q: %w", f.Name, err)
	}
	if len(data) > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q: %w", f.Name, ErrTooLarge)
	}
	return data, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
