package filesystem

import (
	"io"
	"io/fs"
	"strings"
	"sync"
	"syscall"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// IOFileSystem adapts an io/fs.FS such as embed.FS, os.DirFS or a
// zip.Reader. The FS root is presented as "/".
//
// io/fs has no notion of symbolic links, so Lstat behaves like Stat.
// Identities are hashed from the path.
type IOFileSystem struct {
	fsys fs.FS
	mu   sync.Mutex
	cwd  string
}

// NewIOFileSystem wraps fsys with "/" as the working directory.
func NewIOFileSystem(fsys fs.FS) *IOFileSystem {
	return &IOFileSystem{fsys: fsys, cwd: "/"}
}

// resolve returns the absolute virtual path and the matching fs.FS name.
func (f *IOFileSystem) resolve(name string) (abs, fsName string) {
	f.mu.Lock()
	abs = virtualPath(f.cwd, name)
	f.mu.Unlock()
	if abs == "/" {
		return abs, "."
	}
	return abs, strings.TrimPrefix(abs, "/")
}

// Stat implements fts.Backend.
func (f *IOFileSystem) Stat(name string) (fts.Attr, error) {
	abs, fsName := f.resolve(name)
	fi, err := fs.Stat(f.fsys, fsName)
	if err != nil {
		return fts.Attr{}, err
	}
	return attrFromInfo(abs, fi), nil
}

// Lstat implements fts.Backend.
func (f *IOFileSystem) Lstat(name string) (fts.Attr, error) {
	return f.Stat(name)
}

// Chdir implements fts.Backend.
func (f *IOFileSystem) Chdir(name string) error {
	abs, fsName := f.resolve(name)
	fi, err := fs.Stat(f.fsys, fsName)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &fs.PathError{Op: string(OpChdir), Path: name, Err: syscall.ENOTDIR}
	}
	f.mu.Lock()
	f.cwd = abs
	f.mu.Unlock()
	return nil
}

// Getwd implements fts.Backend.
func (f *IOFileSystem) Getwd() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cwd, nil
}

// OpenDir implements fts.Backend.
func (f *IOFileSystem) OpenDir(name string) (fts.DirReader, error) {
	_, fsName := f.resolve(name)
	list, err := fs.ReadDir(f.fsys, fsName)
	if err != nil {
		return nil, err
	}
	entries := dotEntries()
	for _, e := range list {
		entries = append(entries, fts.DirEntry{Name: e.Name(), Type: fts.TypeOf(e.Type())})
	}
	return newSliceDir(entries, nil), nil
}

// Open implements fts.ContentOpener.
func (f *IOFileSystem) Open(name string) (io.ReadCloser, error) {
	_, fsName := f.resolve(name)
	return f.fsys.Open(fsName)
}
