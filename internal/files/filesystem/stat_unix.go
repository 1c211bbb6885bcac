//go:build linux || darwin || freebsd

package filesystem

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// Stat implements fts.Backend.
func (*OSFileSystem) Stat(name string) (fts.Attr, error) {
	var st unix.Stat_t
	if err := unix.Stat(name, &st); err != nil {
		return fts.Attr{}, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return attrFromStat(&st), nil
}

// Lstat implements fts.Backend.
func (*OSFileSystem) Lstat(name string) (fts.Attr, error) {
	var st unix.Stat_t
	if err := unix.Lstat(name, &st); err != nil {
		return fts.Attr{}, &fs.PathError{Op: "lstat", Path: name, Err: err}
	}
	return attrFromStat(&st), nil
}

func attrFromStat(st *unix.Stat_t) fts.Attr {
	return fts.Attr{
		Dev:     uint64(st.Dev),
		Ino:     uint64(st.Ino),
		Nlink:   uint64(st.Nlink),
		Mode:    fileMode(uint32(st.Mode)),
		Size:    st.Size,
		ModTime: time.Unix(st.Mtim.Unix()),
	}
}

func fileMode(m uint32) fs.FileMode {
	mode := fs.FileMode(m & 0o777)
	switch m & unix.S_IFMT {
	case unix.S_IFDIR:
		mode |= fs.ModeDir
	case unix.S_IFLNK:
		mode |= fs.ModeSymlink
	case unix.S_IFIFO:
		mode |= fs.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= fs.ModeSocket
	case unix.S_IFCHR:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case unix.S_IFBLK:
		mode |= fs.ModeDevice
	}
	if m&unix.S_ISUID != 0 {
		mode |= fs.ModeSetuid
	}
	if m&unix.S_ISGID != 0 {
		mode |= fs.ModeSetgid
	}
	if m&unix.S_ISVTX != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}
