package billy

import (
	"errors"
	"io"
	iofs "io/fs"

	"github.com/go-git/go-billy/v5"
)

// File is an open go-billy file. Stat goes back to the owning filesystem
// because billy.File has no Stat of its own.
type File struct {
	billy.File
	owner *FS
}

// Close closes the file.
func (f *File) Close() error {
	return pathError("close", f.Name(), f.File.Close())
}

// Read passes io.EOF through unwrapped.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.File.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, pathError("read", f.Name(), err)
	}
	return n, err //nolint:wrapcheck // io.Reader contract
}

// Write writes p to the file.
func (f *File) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)
	return n, pathError("write", f.Name(), err)
}

// Stat describes the file.
func (f *File) Stat() (iofs.FileInfo, error) {
	return f.owner.Stat(f.Name())
}

// pathError reports err as an *fs.PathError so callers can tell local
// filesystem failures from remote ones. A nil err stays nil.
func pathError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &iofs.PathError{Op: op, Path: name, Err: err}
}
