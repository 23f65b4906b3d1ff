// Package fs defines the filesystem abstraction the extract step reads and
// writes local files through. Production code uses the OS filesystem and
// tests use an in-memory one, both via the billy adapter.
package fs

import (
	"io/fs"
	"os"
)

// File represents an open file handle supporting basic I/O operations.
// Implementations should behave consistently with the standard library.
type File interface {
	Close() error
	Name() string
	Read(p []byte) (n int, err error)
	Stat() (fs.FileInfo, error)
	Write(p []byte) (n int, err error)
}

// Filesystem is the set of local file operations used by the downloader
// and the merger.
type Filesystem interface {
	// Create creates or truncates the named file, creating missing parent
	// directories.
	Create(name string) (File, error)

	// Open opens the named file for reading.
	Open(name string) (File, error)

	// Exists reports whether the path exists.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string, perm os.FileMode) error

	// ReadDir lists a directory, sorted by name.
	ReadDir(dirname string) ([]os.FileInfo, error)

	// ReadFile reads a whole file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if needed.
	WriteFile(filename string, data []byte, perm os.FileMode) error

	// Remove deletes the named file or empty directory.
	Remove(name string) error

	// Stat describes the named file.
	Stat(name string) (os.FileInfo, error)
}
