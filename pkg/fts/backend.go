package fts

import (
	"io"
	"io/fs"
	"time"
)

// Backend is the filesystem the stream walks.
//
// Relative paths are resolved against the backend's working directory,
// which Chdir changes and Getwd reports. Stat follows symbolic links,
// Lstat does not.
type Backend interface {
	Stat(path string) (Attr, error)
	Lstat(path string) (Attr, error)
	Chdir(path string) error
	Getwd() (string, error)
	OpenDir(path string) (DirReader, error)
}

// DirReader enumerates a directory opened by Backend.OpenDir.
//
// ReadDir follows the contract of os.File.ReadDir with n > 0: it returns
// at most n entries and io.EOF once the directory is exhausted. Unlike
// os.File.ReadDir, the "." and ".." entries are included when the backend
// knows about them.
type DirReader interface {
	ReadDir(n int) ([]DirEntry, error)
	Close() error
}

// ContentOpener is implemented by backends that can read file contents.
type ContentOpener interface {
	Open(path string) (io.ReadCloser, error)
}

// EntryType is the type hint reported by a directory listing.
type EntryType uint8

const (
	TypeUnknown EntryType = iota
	TypeDir
	TypeRegular
	TypeSymlink
	TypeOther
)

// TypeOf maps a file mode to a listing type hint.
func TypeOf(mode fs.FileMode) EntryType {
	switch {
	case mode.IsDir():
		return TypeDir
	case mode.IsRegular():
		return TypeRegular
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	default:
		return TypeOther
	}
}

// DirEntry is one name returned by DirReader.ReadDir.
type DirEntry struct {
	Name string
	Type EntryType
}

// Attr holds the attributes of a filesystem object.
type Attr struct {
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Mode    fs.FileMode
	Size    int64
	ModTime time.Time
}

// IsDir reports whether the attributes describe a directory.
func (a Attr) IsDir() bool {
	return a.Mode.IsDir()
}
