package filesystem

import (
	"io"
	"io/fs"
	"path"

	"github.com/cespare/xxhash/v2"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// Backend combines the traversal contract with content access.
type Backend interface {
	fts.Backend
	fts.ContentOpener
}

var (
	_ Backend = (*OSFileSystem)(nil)
	_ Backend = (*MemoryFileSystem)(nil)
	_ Backend = (*AferoFileSystem)(nil)
	_ Backend = (*IOFileSystem)(nil)
)

// Op names a backend operation, used for fault injection and call counts.
type Op string

const (
	OpStat    Op = "stat"
	OpLstat   Op = "lstat"
	OpChdir   Op = "chdir"
	OpGetwd   Op = "getwd"
	OpOpenDir Op = "opendir"
	OpReadDir Op = "readdir"
	OpOpen    Op = "open"
)

// pathIdentity derives a stable inode number for backends that have none.
func pathIdentity(p string) uint64 {
	return xxhash.Sum64String(path.Clean(p))
}

// attrFromInfo converts fs.FileInfo for backends without native identities.
func attrFromInfo(abs string, fi fs.FileInfo) fts.Attr {
	return fts.Attr{
		Ino:     pathIdentity(abs),
		Nlink:   1,
		Mode:    fi.Mode(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}
}

// virtualPath resolves name against the working directory cwd of a
// backend that keeps its own. The result is absolute and clean.
func virtualPath(cwd, name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Join(cwd, name)
}

// sliceDir serves a precomputed listing through fts.DirReader.
type sliceDir struct {
	entries []fts.DirEntry
	pos     int
	tail    error
}

func newSliceDir(entries []fts.DirEntry, tail error) *sliceDir {
	if tail == nil {
		tail = io.EOF
	}
	return &sliceDir{entries: entries, tail: tail}
}

func (d *sliceDir) ReadDir(n int) ([]fts.DirEntry, error) {
	if d.pos >= len(d.entries) {
		return nil, d.tail
	}
	end := len(d.entries)
	if n > 0 && d.pos+n < end {
		end = d.pos + n
	}
	out := d.entries[d.pos:end]
	d.pos = end
	return out, nil
}

func (d *sliceDir) Close() error {
	d.entries = nil
	return nil
}

// dotEntries returns the "." and ".." entries that head every listing.
func dotEntries() []fts.DirEntry {
	return []fts.DirEntry{
		{Name: ".", Type: fts.TypeDir},
		{Name: "..", Type: fts.TypeDir},
	}
}
