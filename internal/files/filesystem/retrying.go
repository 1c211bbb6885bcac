package filesystem

import (
	"context"
	"io"
	"time"

	"github.com/vvka-141/fswalk/internal/retry"
	"github.com/vvka-141/fswalk/pkg/fts"
)

// RetryingFileSystem reissues backend calls that fail transiently, for
// example with EMFILE while another process holds many descriptors.
// Directory reads are not retried because a failed ReadDir may already
// have consumed entries.
type RetryingFileSystem struct {
	next     Backend
	executor *retry.Executor
}

// NewRetryingFileSystem wraps next so that every call is attempted up to
// retries more times. log receives one line per retry and may be nil.
func NewRetryingFileSystem(next Backend, retries int, log fts.Logger) *RetryingFileSystem {
	executor := retry.NewExecutor(retry.NewFilesystemErrorClassifier(), retry.NewExponentialBackoff(retries))
	if log != nil {
		executor = executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Verbose("retry %d in %v: %v", attempt+1, delay, err)
		})
	}
	return &RetryingFileSystem{next: next, executor: executor}
}

func (r *RetryingFileSystem) do(op func() error) error {
	return r.executor.Execute(context.Background(), func(context.Context) error { return op() })
}

// Stat implements fts.Backend.
func (r *RetryingFileSystem) Stat(name string) (attr fts.Attr, err error) {
	err = r.do(func() error {
		attr, err = r.next.Stat(name)
		return err
	})
	return attr, err
}

// Lstat implements fts.Backend.
func (r *RetryingFileSystem) Lstat(name string) (attr fts.Attr, err error) {
	err = r.do(func() error {
		attr, err = r.next.Lstat(name)
		return err
	})
	return attr, err
}

// Chdir implements fts.Backend.
func (r *RetryingFileSystem) Chdir(name string) error {
	return r.do(func() error { return r.next.Chdir(name) })
}

// Getwd implements fts.Backend.
func (r *RetryingFileSystem) Getwd() (dir string, err error) {
	err = r.do(func() error {
		dir, err = r.next.Getwd()
		return err
	})
	return dir, err
}

// OpenDir implements fts.Backend.
func (r *RetryingFileSystem) OpenDir(name string) (d fts.DirReader, err error) {
	err = r.do(func() error {
		d, err = r.next.OpenDir(name)
		return err
	})
	return d, err
}

// Open implements fts.ContentOpener.
func (r *RetryingFileSystem) Open(name string) (rc io.ReadCloser, err error) {
	err = r.do(func() error {
		rc, err = r.next.Open(name)
		return err
	})
	return rc, err
}
