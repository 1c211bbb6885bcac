package filesystem

import (
	"io"
	"os"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// OSFileSystem walks the operating system filesystem. Chdir changes the
// working directory of the whole process.
type OSFileSystem struct{}

// NewOSFileSystem creates an OS backend.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Chdir implements fts.Backend.
func (*OSFileSystem) Chdir(name string) error {
	return os.Chdir(name)
}

// Getwd implements fts.Backend.
func (*OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// OpenDir implements fts.Backend.
func (*OSFileSystem) OpenDir(name string) (fts.DirReader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &osDir{f: f}, nil
}

// Open implements fts.ContentOpener.
func (*OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// osDir adapts os.File.ReadDir, which omits "." and "..", by reporting
// them ahead of the first batch.
type osDir struct {
	f        *os.File
	dotsSent bool
}

func (d *osDir) ReadDir(n int) ([]fts.DirEntry, error) {
	var out []fts.DirEntry
	if !d.dotsSent {
		out = dotEntries()
		d.dotsSent = true
	}
	entries, err := d.f.ReadDir(n)
	for _, e := range entries {
		out = append(out, fts.DirEntry{Name: e.Name(), Type: fts.TypeOf(e.Type())})
	}
	if err == io.EOF && len(out) > 0 {
		return out, nil
	}
	return out, err
}

func (d *osDir) Close() error {
	return d.f.Close()
}
