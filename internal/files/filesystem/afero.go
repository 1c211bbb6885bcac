package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"sync"
	"syscall"

	"github.com/spf13/afero"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// AferoFileSystem adapts an afero.Fs. It keeps a private working
// directory, so it is safe to walk with chdir navigation while other
// goroutines use the same process.
//
// afero exposes no device or inode numbers; identities are hashed from
// the absolute path and every object reports one link.
type AferoFileSystem struct {
	fs  afero.Fs
	mu  sync.Mutex
	cwd string
}

// NewAferoFileSystem wraps fsys with "/" as the working directory.
func NewAferoFileSystem(fsys afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: fsys, cwd: "/"}
}

// NewSandboxFileSystem confines a walk to dir on the OS filesystem. Paths
// inside the sandbox are rooted at dir.
func NewSandboxFileSystem(dir string) *AferoFileSystem {
	return NewAferoFileSystem(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

func (a *AferoFileSystem) abs(name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return virtualPath(a.cwd, name)
}

// Stat implements fts.Backend.
func (a *AferoFileSystem) Stat(name string) (fts.Attr, error) {
	abs := a.abs(name)
	fi, err := a.fs.Stat(abs)
	if err != nil {
		return fts.Attr{}, err
	}
	return attrFromInfo(abs, fi), nil
}

// Lstat implements fts.Backend. Filesystems without symbolic link support
// fall back to Stat.
func (a *AferoFileSystem) Lstat(name string) (fts.Attr, error) {
	abs := a.abs(name)
	var (
		fi  fs.FileInfo
		err error
	)
	if l, ok := a.fs.(afero.Lstater); ok {
		fi, _, err = l.LstatIfPossible(abs)
	} else {
		fi, err = a.fs.Stat(abs)
	}
	if err != nil {
		return fts.Attr{}, err
	}
	return attrFromInfo(abs, fi), nil
}

// Chdir implements fts.Backend.
func (a *AferoFileSystem) Chdir(name string) error {
	abs := a.abs(name)
	fi, err := a.fs.Stat(abs)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &fs.PathError{Op: string(OpChdir), Path: name, Err: syscall.ENOTDIR}
	}
	a.mu.Lock()
	a.cwd = abs
	a.mu.Unlock()
	return nil
}

// Getwd implements fts.Backend.
func (a *AferoFileSystem) Getwd() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cwd, nil
}

// OpenDir implements fts.Backend.
func (a *AferoFileSystem) OpenDir(name string) (fts.DirReader, error) {
	f, err := a.fs.Open(a.abs(name))
	if err != nil {
		return nil, err
	}
	return &aferoDir{f: f}, nil
}

// Open implements fts.ContentOpener.
func (a *AferoFileSystem) Open(name string) (io.ReadCloser, error) {
	return a.fs.Open(a.abs(name))
}

type aferoDir struct {
	f        afero.File
	dotsSent bool
}

func (d *aferoDir) ReadDir(n int) ([]fts.DirEntry, error) {
	var out []fts.DirEntry
	if !d.dotsSent {
		out = dotEntries()
		d.dotsSent = true
	}
	infos, err := d.f.Readdir(n)
	for _, fi := range infos {
		out = append(out, fts.DirEntry{Name: fi.Name(), Type: fts.TypeOf(fi.Mode())})
	}
	if errors.Is(err, io.EOF) && len(out) > 0 {
		return out, nil
	}
	return out, err
}

func (d *aferoDir) Close() error {
	return d.f.Close()
}
