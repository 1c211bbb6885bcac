//go:build !(linux || darwin || freebsd)

package filesystem

import (
	"os"
	"path/filepath"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// Without stat(2) identities are derived from the resolved absolute path
// and every object reports one link.

// Stat implements fts.Backend.
func (*OSFileSystem) Stat(name string) (fts.Attr, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return fts.Attr{}, err
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return fts.Attr{}, err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return attrFromInfo(filepath.ToSlash(abs), fi), nil
}

// Lstat implements fts.Backend.
func (*OSFileSystem) Lstat(name string) (fts.Attr, error) {
	fi, err := os.Lstat(name)
	if err != nil {
		return fts.Attr{}, err
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return fts.Attr{}, err
	}
	return attrFromInfo(filepath.ToSlash(abs), fi), nil
}
