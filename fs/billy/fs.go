// Package billy implements fs.Filesystem over go-billy. The extract step
// uses osfs rooted at the working directory; tests use memfs.
package billy

import (
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	parentfs "github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
)

// FS adapts a billy.Filesystem. Every error it returns is an *fs.PathError.
type FS struct {
	fs billy.Filesystem
}

var _ parentfs.Filesystem = (*FS)(nil)

// NewFS wraps an existing go-billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{fs: fsys}
}

// NewInMemoryFS returns an empty in-memory filesystem.
func NewInMemoryFS() *FS {
	return NewFS(memfs.New())
}

// NewOSFS returns the OS filesystem rooted at dir. Relative names resolve
// against dir.
func NewOSFS(dir string) *FS {
	return NewFS(osfs.New(dir))
}

// Raw returns the wrapped go-billy filesystem.
//
//nolint:ireturn // exposes the adapter target
func (b *FS) Raw() billy.Filesystem {
	return b.fs
}

// Create creates or truncates name, creating missing parent directories
// so that object keys with slashes land in matching subfolders.
//
//nolint:ireturn // returns the fs.File interface
func (b *FS) Create(name string) (parentfs.File, error) {
	if dir := path.Dir(name); dir != "." && dir != "/" {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, pathError("create", name, err)
		}
	}
	f, err := b.fs.Create(name)
	if err != nil {
		return nil, pathError("create", name, err)
	}
	return &File{File: f, owner: b}, nil
}

// Open opens name for reading.
//
//nolint:ireturn // returns the fs.File interface
func (b *FS) Open(name string) (parentfs.File, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, pathError("open", name, err)
	}
	return &File{File: f, owner: b}, nil
}

// Exists reports whether name exists. Only errors other than not-exist
// are returned.
func (b *FS) Exists(name string) (bool, error) {
	_, err := b.fs.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, pathError("stat", name, err)
	}
}

// MkdirAll creates name and any missing parents.
func (b *FS) MkdirAll(name string, perm os.FileMode) error {
	return pathError("mkdir", name, b.fs.MkdirAll(name, perm))
}

// ReadDir lists dirname sorted by name. memfs does not sort.
func (b *FS) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := b.fs.ReadDir(dirname)
	if err != nil {
		return nil, pathError("readdir", dirname, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// ReadFile reads the whole of name.
func (b *FS) ReadFile(name string) ([]byte, error) {
	data, err := util.ReadFile(b.fs, name)
	if err != nil {
		return nil, pathError("read", name, err)
	}
	return data, nil
}

// WriteFile writes data to name, creating or truncating it.
func (b *FS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return pathError("write", name, util.WriteFile(b.fs, name, data, perm))
}

// Remove deletes name.
func (b *FS) Remove(name string) error {
	return pathError("remove", name, b.fs.Remove(name))
}

// Stat describes name.
func (b *FS) Stat(name string) (os.FileInfo, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, pathError("stat", name, err)
	}
	return info, nil
}
