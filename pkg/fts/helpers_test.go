package fts_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fswalk/internal/files/filesystem"
	"github.com/vvka-141/fswalk/pkg/fts"
)

type visit struct {
	Info  fts.Info
	Path  string
	Level int
}

// newTree builds:
//
//	/work/tree/a.txt
//	/work/tree/sub/b.txt
//	/work/tree/c.txt
func newTree(t *testing.T) *filesystem.MemoryFileSystem {
	t.Helper()
	mfs := filesystem.NewMemoryFileSystem("/work")
	mfs.AddFile("tree/a.txt", "aaa")
	mfs.AddFile("tree/sub/b.txt", "bb")
	mfs.AddFile("tree/c.txt", "c")
	return mfs
}

func open(t *testing.T, b fts.Backend, paths []string, flags fts.Flag, cmp fts.CompareFunc) *fts.Stream {
	t.Helper()
	s, err := fts.Open(b, paths, flags, cmp)
	require.NoError(t, err)
	return s
}

// drain reads the stream to the end and returns every visit.
func drain(t *testing.T, s *fts.Stream) []visit {
	t.Helper()
	var out []visit
	for {
		e, err := s.Read()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, visit{Info: e.Info(), Path: e.Path(), Level: e.Level()})
	}
}

var navigationModes = []struct {
	name  string
	flags fts.Flag
}{
	{"chdir", fts.Physical},
	{"nochdir", fts.Physical | fts.NoChdir},
}
