package fts

import (
	"fmt"
	"io/fs"
)

// Stream is an open traversal over one or more roots.
type Stream struct {
	fsys    Backend
	log     Logger
	compare CompareFunc
	flags   Flag
	batch   int

	path  pathBuffer
	dev   uint64
	cur   *Entry
	child *Entry
	array []*Entry
	rpath string

	nameOnly bool
	stopped  bool
	stopErr  error
	closed   bool

	live int
}

// Open starts a traversal of paths over fsys.
//
// Roots are visited in the order given unless compare is non-nil, in which
// case roots and the children of every directory are sorted with it.
// Neither Logical nor Physical selects Physical; Logical implies NoChdir.
func Open(fsys Backend, paths []string, flags Flag, compare CompareFunc, opts ...Option) (*Stream, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrInvalidArgument)
	}
	if extra := flags &^ flagMask; extra != 0 {
		return nil, fmt.Errorf("%w: unknown flags %#x", ErrInvalidArgument, int(extra))
	}
	if flags&Logical != 0 && flags&Physical != 0 {
		return nil, fmt.Errorf("%w: Logical and Physical are mutually exclusive", ErrInvalidArgument)
	}
	if flags&(Logical|Physical) == 0 {
		flags |= Physical
	}
	if flags&Logical != 0 {
		flags |= NoChdir
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Stream{
		fsys:    fsys,
		log:     o.logger,
		compare: compare,
		flags:   flags,
		batch:   o.readBatch,
	}

	if err := s.path.reserve(max(maxArgLen(paths), MaxPathLen)); err != nil {
		return nil, err
	}

	parent := s.alloc("")
	parent.level = RootParentLevel

	var root, tail *Entry
	nitems := 0
	for _, name := range paths {
		if name == "" {
			s.freeList(root)
			s.free(parent)
			return nil, &OpError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}

		p := s.alloc(name)
		p.level = RootLevel
		p.parent = parent
		p.accpath = name
		p.path = name
		p.info = s.stat(p, s.isSet(ComFollow))
		if p.info == InfoDot {
			p.info = InfoDir
		}

		if root == nil {
			root, tail = p, p
		} else {
			tail.link = p
			tail = p
		}
		nitems++
	}
	if compare != nil && nitems > 1 {
		root = s.sort(root, nitems)
	}

	s.cur = s.alloc("")
	s.cur.link = root
	s.cur.parent = parent
	s.cur.info = InfoInit

	if !s.isSet(NoChdir) {
		wd, err := fsys.Getwd()
		if err != nil {
			s.log.Verbose("fts: cannot record working directory, composing full paths: %v", err)
			s.flags |= NoChdir
		} else {
			s.rpath = wd
		}
	}

	if nitems == 0 {
		s.free(parent)
	}
	return s, nil
}

// Close releases every entry still held by the stream and, unless NoChdir
// is in effect, returns the backend to the directory it was in when Open
// was called. Entries are released even when that final Chdir fails.
func (s *Stream) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	if p := s.cur; p != nil {
		for p != nil && p.level >= RootLevel {
			next := p.link
			if next == nil {
				next = p.parent
			}
			s.free(p)
			p = next
		}
		s.free(p)
		s.cur = nil
	}
	s.freeList(s.child)
	s.child = nil
	s.array = nil
	s.path.buf = nil

	if s.isSet(NoChdir) {
		return nil
	}
	if err := s.fsys.Chdir(s.rpath); err != nil {
		return &OpError{Op: "chdir", Path: s.rpath, Err: err}
	}
	return nil
}

func (s *Stream) isSet(f Flag) bool {
	return s.flags&f != 0
}

// chdir changes the backend directory unless the stream composes paths.
func (s *Stream) chdir(path string) error {
	if s.isSet(NoChdir) {
		return nil
	}
	if err := s.fsys.Chdir(path); err != nil {
		return &OpError{Op: "chdir", Path: path, Err: err}
	}
	return nil
}

// nappend returns the offset at which a child name is appended to p's
// path, dropping a trailing slash.
func (s *Stream) nappend(p *Entry) int {
	if s.path.endsWithSlash(p.pathLen) {
		return p.pathLen - 1
	}
	return p.pathLen
}

// load prepares the path buffer for a new root.
func (s *Stream) load(p *Entry) {
	full := p.path
	s.path.put(0, full)
	p.pathLen = len(full)
	p.accpath = full
	p.name = rootName(full)
	s.dev = p.dev
}

func (s *Stream) stop(err error) error {
	s.stopped = true
	s.stopErr = err
	s.log.Error("fts: traversal stopped: %v", err)
	return err
}

func maxArgLen(paths []string) int {
	n := 0
	for _, p := range paths {
		n = max(n, len(p))
	}
	return n + 1
}
