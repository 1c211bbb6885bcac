package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/vvka-141/fswalk/internal/checksum"
	"github.com/vvka-141/fswalk/internal/files/filesystem"
	"github.com/vvka-141/fswalk/internal/logging"
	"github.com/vvka-141/fswalk/pkg/fts"
)

var (
	// ErrPartial wraps the per-entry failures of a walk that otherwise
	// completed.
	ErrPartial = errors.New("some entries could not be visited")

	// ErrStopped indicates the stream gave up before visiting every root.
	ErrStopped = errors.New("traversal stopped")

	// ErrBadPattern reports an exclude glob that cannot be parsed.
	ErrBadPattern = errors.New("invalid exclude pattern")
)

// IgnoreFileName is the per-root ignore file honored with Options.GitIgnore.
const IgnoreFileName = ".gitignore"

// Record describes one visited entry.
type Record struct {
	Path    string
	Name    string
	Level   int
	Info    fts.Info
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	HasStat bool
	Digest  string
	Err     error
}

// Options control a walk.
type Options struct {
	Flags   fts.Flag
	Compare fts.CompareFunc

	// Exclude holds doublestar globs tested against entry names and against
	// paths relative to their root, so "**/name" matches at any depth.
	// Roots are never excluded.
	Exclude []string

	// GitIgnore prunes entries matched by the .gitignore at each root.
	GitIgnore bool

	// MaxDepth stops descent below this level. Negative means unlimited.
	MaxDepth int

	// PostOrder also visits directories after their contents.
	PostOrder bool

	ReadDirBatch int

	// Digest, when set, is used to checksum regular files during Scan.
	Digest checksum.Calculator

	// Progress is called for every visited entry.
	Progress func(e *fts.Entry)
}

// VisitFunc receives entries in traversal order. Returning an error ends
// the walk with that error.
type VisitFunc func(e *fts.Entry) error

// Result summarizes a Scan.
type Result struct {
	Records []Record
	Files   int
	Dirs    int
}

// Scanner walks hierarchies served by a filesystem backend.
// A Scanner holds no walk state and may run several walks concurrently as
// long as the backend does not share a working directory between them.
type Scanner struct {
	fsys filesystem.Backend
	log  fts.Logger
}

// NewScanner creates a scanner over fsys.
// Panics if fsys is nil.
// A nil log discards diagnostics.
func NewScanner(fsys filesystem.Backend, log fts.Logger) *Scanner {
	if fsys == nil {
		panic("fsys cannot be nil")
	}
	if log == nil {
		log = logging.NewNullLogger()
	}
	return &Scanner{fsys: fsys, log: log}
}

// Walk visits every entry below roots that survives the pruning options.
//
// A walk that finishes with per-entry failures returns an error wrapping
// ErrPartial together with a *multierror.Error listing them. A stream
// failure returns an error wrapping ErrStopped.
func (s *Scanner) Walk(ctx context.Context, roots []string, opts Options, visit VisitFunc) (err error) {
	if err := validatePatterns(opts.Exclude); err != nil {
		return err
	}

	stream, err := fts.Open(s.fsys, roots, opts.Flags, opts.Compare,
		fts.WithLogger(s.log), fts.WithReadDirBatch(opts.ReadDirBatch))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	var (
		problems *multierror.Error
		matcher  gitignore.IgnoreMatcher = gitignore.DummyIgnoreMatcher(false)
		root     string
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e, err := stream.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("%w: %w", ErrStopped, err)
		}

		if e.Level() == fts.RootLevel && e.Info() != fts.InfoDirPost {
			root = e.Path()
			matcher = gitignore.DummyIgnoreMatcher(false)
			if opts.GitIgnore && e.Info() == fts.InfoDir {
				matcher = s.loadIgnore(e)
			}
		}

		if e.Info() == fts.InfoDirPost && !opts.PostOrder {
			continue
		}

		// Pruned directories come back once more in post-order.
		if e.Level() > fts.RootLevel {
			if reason := pruneReason(e, root, matcher, opts.Exclude); reason != "" {
				if e.Info() == fts.InfoDir {
					s.log.Verbose("pruned %s (%s)", e.Path(), reason)
					if err := stream.Set(e, fts.InstrSkip); err != nil {
						return err
					}
				}
				continue
			}
		}

		if e.Info() == fts.InfoDir && opts.MaxDepth >= 0 && e.Level() >= opts.MaxDepth {
			if err := stream.Set(e, fts.InstrSkip); err != nil {
				return err
			}
		}

		switch e.Info() {
		case fts.InfoDirUnreadable, fts.InfoError, fts.InfoNoStat:
			problems = multierror.Append(problems, fmt.Errorf("%s: %w", e.Path(), e.Err()))
		case fts.InfoCycle:
			s.log.Verbose("skipping %s: directory cycle", e.Path())
		}

		if opts.Progress != nil {
			opts.Progress(e)
		}
		if err := visit(e); err != nil {
			var perr *entryError
			if errors.As(err, &perr) {
				problems = multierror.Append(problems, perr.err)
				continue
			}
			return err
		}
	}

	if problems.ErrorOrNil() != nil {
		return fmt.Errorf("%w: %w", ErrPartial, problems)
	}
	return nil
}

// Scan walks roots and returns a record per visited entry. The result is
// valid even when the error wraps ErrPartial.
func (s *Scanner) Scan(ctx context.Context, roots []string, opts Options) (Result, error) {
	var result Result
	err := s.Walk(ctx, roots, opts, func(e *fts.Entry) error {
		rec := NewRecord(e)
		switch e.Info() {
		case fts.InfoDir:
			result.Dirs++
		case fts.InfoFile, fts.InfoNoStatOK:
			result.Files++
		}
		var digestErr error
		if opts.Digest != nil && e.Info() == fts.InfoFile {
			rec.Digest, digestErr = checksum.SumFile(s.fsys, e.AccPath(), opts.Digest)
			if digestErr != nil {
				rec.Err = digestErr
				digestErr = &entryError{fmt.Errorf("%s: %w", e.Path(), digestErr)}
			}
		}
		result.Records = append(result.Records, rec)
		return digestErr
	})
	return result, err
}

// NewRecord captures the fields of e that outlive the stream.
func NewRecord(e *fts.Entry) Record {
	rec := Record{
		Path:  e.Path(),
		Name:  e.Name(),
		Level: e.Level(),
		Info:  e.Info(),
		Err:   e.Err(),
	}
	if st := e.Stat(); st != nil {
		rec.HasStat = true
		rec.Size = st.Size
		rec.Mode = st.Mode
		rec.ModTime = st.ModTime
	}
	return rec
}

// entryError marks a visitor failure that concerns one entry only.
type entryError struct{ err error }

func (e *entryError) Error() string { return e.err.Error() }
func (e *entryError) Unwrap() error { return e.err }

func (s *Scanner) loadIgnore(root *fts.Entry) gitignore.IgnoreMatcher {
	f, err := s.fsys.Open(path.Join(root.AccPath(), IgnoreFileName))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Verbose("ignoring %s: %v", path.Join(root.Path(), IgnoreFileName), err)
		}
		return gitignore.DummyIgnoreMatcher(false)
	}
	defer f.Close()
	return gitignore.NewGitIgnoreFromReader(root.Path(), f)
}

// pruneReason returns the exclude pattern or ignore rule that removes e,
// or "" when e is kept.
func pruneReason(e *fts.Entry, root string, matcher gitignore.IgnoreMatcher, patterns []string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(e.Path(), root), "/")
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, e.Name()); ok {
			return p
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return p
		}
	}
	isDir := e.Info() == fts.InfoDir || e.Info() == fts.InfoDirPost
	if matcher.Match(e.Path(), isDir) {
		return IgnoreFileName
	}
	return ""
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	return nil
}

// Order returns the comparator for a configured sort order. "none" keeps
// directory order and yields nil.
func Order(name string) (fts.CompareFunc, error) {
	switch name {
	case "none":
		return nil, nil
	case "name", "":
		return fts.ByName, nil
	case "name-desc":
		return fts.Reverse(fts.ByName), nil
	case "size":
		return fts.BySize, nil
	case "mtime":
		return fts.ByModTime, nil
	}
	return nil, fmt.Errorf("unknown sort order %q", name)
}
