package filesystem

import (
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// recordingLogger counts verbose lines.
type recordingLogger struct{ verbose int }

func (l *recordingLogger) Verbose(string, ...interface{}) { l.verbose++ }
func (l *recordingLogger) Info(string, ...interface{})    {}
func (l *recordingLogger) Error(string, ...interface{})   {}

var _ Backend = (*RetryingFileSystem)(nil)

// healingLogger clears a fault on the first retry.
type healingLogger struct {
	recordingLogger
	heal func()
}

func (l *healingLogger) Verbose(format string, args ...interface{}) {
	l.recordingLogger.Verbose(format, args...)
	if l.heal != nil {
		l.heal()
		l.heal = nil
	}
}

func TestRetryingFileSystem_RecoversFromTransientErrors(t *testing.T) {
	mfs := NewMemoryFileSystem("/work")
	mfs.AddFile("d/a", "x")
	mfs.Fail("d", OpOpenDir, syscall.EMFILE)

	log := &healingLogger{}
	log.heal = func() { mfs.Fail("d", OpOpenDir, nil) }
	rfs := NewRetryingFileSystem(mfs, 3, log)

	dir, err := rfs.OpenDir("d")
	require.NoError(t, err)
	require.NoError(t, dir.Close())
	assert.Equal(t, 1, log.verbose)
	assert.Equal(t, 2, mfs.Calls(OpOpenDir))
}

func TestRetryingFileSystem_PermanentErrorsFailFast(t *testing.T) {
	mfs := NewMemoryFileSystem("/work")
	mfs.AddFile("f", "x")
	mfs.Fail("f", OpOpen, fs.ErrPermission)
	log := &recordingLogger{}
	rfs := NewRetryingFileSystem(mfs, 3, log)

	_, err := rfs.Open("f")
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, 0, log.verbose)

	_, err = rfs.Stat("missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 1, mfs.Calls(OpStat))
}

func TestRetryingFileSystem_GivesUp(t *testing.T) {
	mfs := NewMemoryFileSystem("/work")
	mfs.AddFile("f", "x")
	mfs.Fail("f", OpLstat, syscall.EAGAIN)
	rfs := NewRetryingFileSystem(mfs, 2, nil)

	_, err := rfs.Lstat("f")
	assert.ErrorIs(t, err, syscall.EAGAIN)
	assert.Equal(t, 3, mfs.Calls(OpLstat))
}

func TestRetryingFileSystem_Walk(t *testing.T) {
	mfs := NewMemoryFileSystem("/work")
	mfs.AddFile("tree/a.txt", "a")
	mfs.AddFile("tree/sub/b.txt", "b")
	rfs := NewRetryingFileSystem(mfs, 1, nil)

	stream, err := fts.Open(rfs, []string{"tree"}, fts.Physical, fts.ByName)
	require.NoError(t, err)
	var got []string
	for {
		e, err := stream.Read()
		if err != nil {
			break
		}
		got = append(got, e.Info().String()+" "+e.Path())
	}
	require.NoError(t, stream.Close())

	assert.Equal(t, []string{
		"D tree", "F tree/a.txt", "D tree/sub", "F tree/sub/b.txt", "DP tree/sub", "DP tree",
	}, got)
	cwd, err := rfs.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/work", cwd)
}
