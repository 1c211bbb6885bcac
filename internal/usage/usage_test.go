package usage

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fswalk/internal/files/filesystem"
	"github.com/vvka-141/fswalk/internal/files/scanner"
	"github.com/vvka-141/fswalk/pkg/fts"
)

func newTree() *filesystem.MemoryFileSystem {
	mfs := filesystem.NewMemoryFileSystem("/work")
	mfs.AddFile("data/a", strings.Repeat("a", 10))
	mfs.AddSymlink("data/link", "a")
	mfs.AddFile("data/sub/b", strings.Repeat("b", 20))
	mfs.AddHardLink("data/sub/b", "data/sub/c")
	mfs.AddFile("data/sub/deep/d", strings.Repeat("d", 5))
	return mfs
}

func options() scanner.Options {
	return scanner.Options{Flags: fts.Physical, Compare: fts.ByName, MaxDepth: 0}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		depth    int
		expected []Row
	}{
		{
			name:  "all directories",
			depth: -1,
			expected: []Row{
				{Path: "data/sub/deep", Level: 2, Size: 5},
				{Path: "data/sub", Level: 1, Size: 25},
				{Path: "data", Level: 0, Size: 36},
			},
		},
		{
			name:  "depth one",
			depth: 1,
			expected: []Row{
				{Path: "data/sub", Level: 1, Size: 25},
				{Path: "data", Level: 0, Size: 36},
			},
		},
		{
			name:     "summary only",
			depth:    0,
			expected: []Row{{Path: "data", Level: 0, Size: 36}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scanner.NewScanner(newTree(), nil)
			report, err := Compute(context.Background(), sc, []string{"data"}, options(), tt.depth)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, report.Rows)
			assert.Equal(t, int64(36), report.Total)
		})
	}
}

func TestCompute_NoChdirAndNoStat(t *testing.T) {
	sc := scanner.NewScanner(newTree(), nil)
	opts := options()
	opts.Flags |= fts.NoChdir | fts.NoStat

	report, err := Compute(context.Background(), sc, []string{"data"}, opts, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(36), report.Total)
}

func TestCompute_HardLinksAcrossRoots(t *testing.T) {
	sc := scanner.NewScanner(newTree(), nil)

	report, err := Compute(context.Background(), sc, []string{"data/sub/b", "data/sub/c", "data/a"}, options(), -1)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Path: "data/a", Level: 0, Size: 10},
		{Path: "data/sub/b", Level: 0, Size: 20},
	}, report.Rows)
	assert.Equal(t, int64(30), report.Total)
}

func TestCompute_Excludes(t *testing.T) {
	sc := scanner.NewScanner(newTree(), nil)
	opts := options()
	opts.Exclude = []string{"deep"}

	report, err := Compute(context.Background(), sc, []string{"data"}, opts, -1)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Path: "data/sub", Level: 1, Size: 20},
		{Path: "data", Level: 0, Size: 31},
	}, report.Rows)
}

func TestCompute_Unreadable(t *testing.T) {
	mfs := newTree()
	mfs.Fail("data/sub", filesystem.OpOpenDir, fs.ErrPermission)
	sc := scanner.NewScanner(mfs, nil)

	report, err := Compute(context.Background(), sc, []string{"data"}, options(), -1)
	assert.ErrorIs(t, err, scanner.ErrPartial)
	assert.Equal(t, []Row{{Path: "data", Level: 0, Size: 11}}, report.Rows)
	assert.Equal(t, int64(11), report.Total)
}

func TestCompute_HardLinkInOtherDirectory(t *testing.T) {
	for _, flags := range []fts.Flag{fts.Physical, fts.Physical | fts.NoChdir} {
		mfs := filesystem.NewMemoryFileSystem("/work")
		mfs.AddFile("data/x/f", strings.Repeat("f", 8))
		mfs.AddHardLink("data/x/f", "data/y/g")
		mfs.AddHardLink("data/x/f", "data/y/h")
		sc := scanner.NewScanner(mfs, nil)
		opts := options()
		opts.Flags = flags

		report, err := Compute(context.Background(), sc, []string{"data"}, opts, -1)
		require.NoError(t, err)
		assert.Equal(t, []Row{
			{Path: "data/x", Level: 1, Size: 8},
			{Path: "data/y", Level: 1, Size: 0},
			{Path: "data", Level: 0, Size: 8},
		}, report.Rows)
		assert.Equal(t, int64(8), report.Total)
	}
}
