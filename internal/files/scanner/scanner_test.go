package scanner

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fswalk/internal/checksum"
	"github.com/vvka-141/fswalk/internal/files/filesystem"
	"github.com/vvka-141/fswalk/pkg/fts"
)

func newTestScanner() (*Scanner, *filesystem.MemoryFileSystem) {
	mfs := filesystem.NewMemoryFileSystem("/work")
	mfs.AddFile("proj/.gitignore", "*.log\ntmp\n")
	mfs.AddFile("proj/a.txt", "aaa")
	mfs.AddFile("proj/b.log", "x")
	mfs.AddFile("proj/tmp/t.txt", "t")
	mfs.AddFile("proj/sub/c.txt", "cc")
	mfs.AddFile("proj/sub/d.go", "package d")
	mfs.AddFile("proj/vendor/v.go", "package v")
	return NewScanner(mfs, nil), mfs
}

func defaultOptions() Options {
	return Options{Flags: fts.Physical, Compare: fts.ByName, MaxDepth: -1}
}

func paths(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}

func TestNewScanner_NilFilesystem(t *testing.T) {
	assert.Panics(t, func() { NewScanner(nil, nil) })
}

func TestScan(t *testing.T) {
	for _, flags := range []fts.Flag{fts.Physical, fts.Physical | fts.NoChdir} {
		s, mfs := newTestScanner()
		opts := defaultOptions()
		opts.Flags = flags

		result, err := s.Scan(context.Background(), []string{"proj"}, opts)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"proj",
			"proj/.gitignore",
			"proj/a.txt",
			"proj/b.log",
			"proj/sub",
			"proj/sub/c.txt",
			"proj/sub/d.go",
			"proj/tmp",
			"proj/tmp/t.txt",
			"proj/vendor",
			"proj/vendor/v.go",
		}, paths(result.Records))
		assert.Equal(t, 7, result.Files)
		assert.Equal(t, 4, result.Dirs)

		cwd, err := mfs.Getwd()
		require.NoError(t, err)
		assert.Equal(t, "/work", cwd)
	}
}

func TestScan_RecordFields(t *testing.T) {
	s, _ := newTestScanner()
	result, err := s.Scan(context.Background(), []string{"proj"}, defaultOptions())
	require.NoError(t, err)

	rec := result.Records[5]
	assert.Equal(t, "proj/sub/c.txt", rec.Path)
	assert.Equal(t, "c.txt", rec.Name)
	assert.Equal(t, 2, rec.Level)
	assert.Equal(t, fts.InfoFile, rec.Info)
	assert.True(t, rec.HasStat)
	assert.Equal(t, int64(2), rec.Size)
	assert.True(t, rec.Mode.IsRegular())
	assert.NoError(t, rec.Err)
}

func TestScan_NoStat(t *testing.T) {
	s, _ := newTestScanner()
	opts := defaultOptions()
	opts.Flags |= fts.NoStat

	result, err := s.Scan(context.Background(), []string{"proj"}, opts)
	require.NoError(t, err)

	for _, rec := range result.Records {
		if rec.Name == "a.txt" {
			assert.Equal(t, fts.InfoNoStatOK, rec.Info)
			assert.False(t, rec.HasStat)
		}
	}
	assert.Equal(t, 7, result.Files)
}

func TestScan_Pruning(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Options)
		expected []string
	}{
		{
			name:   "gitignore",
			modify: func(o *Options) { o.GitIgnore = true },
			expected: []string{
				"proj", "proj/.gitignore", "proj/a.txt", "proj/sub", "proj/sub/c.txt",
				"proj/sub/d.go", "proj/vendor", "proj/vendor/v.go",
			},
		},
		{
			name:   "exclude by name",
			modify: func(o *Options) { o.Exclude = []string{"vendor", "*.go"} },
			expected: []string{
				"proj", "proj/.gitignore", "proj/a.txt", "proj/b.log", "proj/sub",
				"proj/sub/c.txt", "proj/tmp", "proj/tmp/t.txt",
			},
		},
		{
			name:   "exclude by relative path",
			modify: func(o *Options) { o.Exclude = []string{"sub/*", "tmp", ".*"} },
			expected: []string{
				"proj", "proj/a.txt", "proj/b.log", "proj/sub", "proj/vendor", "proj/vendor/v.go",
			},
		},
		{
			name:   "exclude at any depth",
			modify: func(o *Options) { o.Exclude = []string{"**/*.txt", "vendor/**/*.go"} },
			expected: []string{
				"proj", "proj/.gitignore", "proj/b.log", "proj/sub", "proj/sub/d.go",
				"proj/tmp", "proj/vendor",
			},
		},
		{
			name:     "depth zero",
			modify:   func(o *Options) { o.MaxDepth = 0 },
			expected: []string{"proj"},
		},
		{
			name:   "depth one",
			modify: func(o *Options) { o.MaxDepth = 1 },
			expected: []string{
				"proj", "proj/.gitignore", "proj/a.txt", "proj/b.log", "proj/sub", "proj/tmp", "proj/vendor",
			},
		},
		{
			name:   "post-order",
			modify: func(o *Options) { o.PostOrder = true; o.MaxDepth = 1; o.Exclude = []string{"*.*"} },
			expected: []string{
				"proj", "proj/sub", "proj/sub", "proj/tmp", "proj/tmp", "proj/vendor", "proj/vendor", "proj",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScanner()
			opts := defaultOptions()
			tt.modify(&opts)

			result, err := s.Scan(context.Background(), []string{"proj"}, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, paths(result.Records))
		})
	}
}

func TestScan_PostOrderInfo(t *testing.T) {
	s, _ := newTestScanner()
	opts := defaultOptions()
	opts.PostOrder = true

	result, err := s.Scan(context.Background(), []string{"proj"}, opts)
	require.NoError(t, err)

	last := result.Records[len(result.Records)-1]
	assert.Equal(t, "proj", last.Path)
	assert.Equal(t, fts.InfoDirPost, last.Info)
	assert.Equal(t, 4, result.Dirs)
}

func TestScan_GitIgnoreMissing(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem("/work")
	mfs.AddFile("plain/a.log", "x")
	s := NewScanner(mfs, nil)
	opts := defaultOptions()
	opts.GitIgnore = true

	result, err := s.Scan(context.Background(), []string{"plain"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "plain/a.log"}, paths(result.Records))
}

func TestScan_PartialFailures(t *testing.T) {
	s, mfs := newTestScanner()
	mfs.Fail("proj/sub", filesystem.OpOpenDir, fs.ErrPermission)

	result, err := s.Scan(context.Background(), []string{"proj", "missing"}, defaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartial)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)

	var infos []fts.Info
	for _, r := range result.Records {
		if r.Path == "proj/sub" {
			infos = append(infos, r.Info)
		}
	}
	assert.Equal(t, []fts.Info{fts.InfoDir, fts.InfoDirUnreadable}, infos)

	first := result.Records[0]
	assert.Equal(t, "missing", first.Path)
	assert.Equal(t, fts.InfoNoStat, first.Info)
}

func TestScan_Digest(t *testing.T) {
	for _, flags := range []fts.Flag{fts.Physical, fts.Physical | fts.NoChdir} {
		s, _ := newTestScanner()
		opts := defaultOptions()
		opts.Flags = flags
		opts.Digest = checksum.SHA256{}

		result, err := s.Scan(context.Background(), []string{"proj"}, opts)
		require.NoError(t, err)

		want, err := checksum.SHA256{}.Sum(strings.NewReader("cc"))
		require.NoError(t, err)
		for _, r := range result.Records {
			switch r.Path {
			case "proj/sub/c.txt":
				assert.Equal(t, want, r.Digest)
			case "proj", "proj/sub":
				assert.Empty(t, r.Digest)
			}
		}
	}
}

func TestScan_DigestFailure(t *testing.T) {
	s, mfs := newTestScanner()
	boom := errors.New("boom")
	mfs.Fail("proj/a.txt", filesystem.OpOpen, boom)
	opts := defaultOptions()
	opts.Digest = checksum.XXHash{}

	result, err := s.Scan(context.Background(), []string{"proj"}, opts)
	assert.ErrorIs(t, err, ErrPartial)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, result.Records, 11)
	assert.ErrorIs(t, result.Records[2].Err, boom)
}

func TestWalk_BadPattern(t *testing.T) {
	s, _ := newTestScanner()
	opts := defaultOptions()
	opts.Exclude = []string{"["}

	err := s.Walk(context.Background(), []string{"proj"}, opts, func(*fts.Entry) error { return nil })
	assert.ErrorIs(t, err, ErrBadPattern)
}

func TestWalk_VisitorError(t *testing.T) {
	s, mfs := newTestScanner()
	stop := errors.New("enough")
	visited := 0

	err := s.Walk(context.Background(), []string{"proj"}, defaultOptions(), func(e *fts.Entry) error {
		visited++
		if e.Name() == "sub" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 5, visited)

	cwd, err := mfs.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/work", cwd)
}

func TestWalk_Canceled(t *testing.T) {
	s, _ := newTestScanner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Walk(ctx, []string{"proj"}, defaultOptions(), func(*fts.Entry) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalk_Progress(t *testing.T) {
	s, _ := newTestScanner()
	opts := defaultOptions()
	calls := 0
	opts.Progress = func(*fts.Entry) { calls++ }

	err := s.Walk(context.Background(), []string{"proj"}, opts, func(*fts.Entry) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 11, calls)
}

func TestWalk_InvalidFlags(t *testing.T) {
	s, _ := newTestScanner()
	opts := defaultOptions()
	opts.Flags = fts.Logical | fts.Physical

	err := s.Walk(context.Background(), []string{"proj"}, opts, func(*fts.Entry) error { return nil })
	assert.ErrorIs(t, err, fts.ErrInvalidArgument)
}

func TestOrder(t *testing.T) {
	for _, name := range []string{"", "name", "name-desc", "size", "mtime"} {
		cmp, err := Order(name)
		require.NoError(t, err, name)
		assert.NotNil(t, cmp, name)
	}

	cmp, err := Order("none")
	require.NoError(t, err)
	assert.Nil(t, cmp)

	_, err = Order("random")
	assert.Error(t, err)
}

func BenchmarkScan(b *testing.B) {
	mfs := filesystem.NewMemoryFileSystem("/bench")
	for i := 0; i < 20; i++ {
		for j := 0; j < 20; j++ {
			mfs.AddFile("root/d"+string(rune('a'+i))+"/f"+string(rune('a'+j)), "data")
		}
	}
	s := NewScanner(mfs, nil)
	opts := defaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Scan(context.Background(), []string{"root"}, opts); err != nil {
			b.Fatal(err)
		}
	}
}
