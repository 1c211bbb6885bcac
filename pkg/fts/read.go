package fts

import (
	"fmt"
	"io"
	"path"
)

// Read returns the next entry of the traversal.
//
// At the end of the traversal Read returns io.EOF. When the stream cannot
// continue, for example because it failed to return to a directory, Read
// returns the error once and io.EOF afterwards.
func (s *Stream) Read() (*Entry, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.cur == nil || s.stopped {
		return nil, io.EOF
	}

	p := s.cur
	instr := p.instr
	p.instr = InstrNone

	if instr == InstrAgain {
		p.info = s.stat(p, false)
		return p, nil
	}

	if instr == InstrFollow && (p.info == InfoSymlink || p.info == InfoSymlinkDangling) {
		s.follow(p)
		return p, nil
	}

	if p.info == InfoDir {
		if instr == InstrSkip || (s.isSet(XDev) && p.dev != s.dev) {
			if p.flags&entrySymFollow != 0 {
				p.symPath = ""
			}
			s.freeList(s.child)
			s.child = nil
			p.info = InfoDirPost
			return p, nil
		}

		if s.child != nil && s.nameOnly {
			s.nameOnly = false
			s.freeList(s.child)
			s.child = nil
		}

		if s.child != nil {
			// Children already listed the directory; only enter it.
			if err := s.chdir(p.accpath); err != nil {
				p.err = err
				p.flags |= entryDontChdir
				for c := s.child; c != nil; c = c.link {
					c.accpath = c.parent.accpath
				}
				s.log.Verbose("fts: cannot enter %s: %v", p.accpath, err)
			}
		} else if s.child = s.build(buildRead); s.child == nil {
			if s.stopped {
				return nil, s.stopErr
			}
			return p, nil
		}

		p = s.child
		s.child = nil
		return s.enter(p), nil
	}

	for {
		tmp := p
		if p = p.link; p == nil {
			return s.ascend(tmp)
		}
		s.cur = p
		s.free(tmp)

		if p.level == RootLevel {
			if err := s.chdir(s.rpath); err != nil {
				return nil, s.stop(err)
			}
			s.load(p)
			return p, nil
		}

		if p.instr == InstrSkip {
			continue
		}
		if p.instr == InstrFollow {
			s.follow(p)
			p.instr = InstrNone
		}
		return s.enter(p), nil
	}
}

// enter composes p's path after its parent's and makes it current.
func (s *Stream) enter(p *Entry) *Entry {
	off := s.nappend(p.parent)
	s.path.slash(off)
	s.path.put(off+1, p.name)
	p.path = s.path.String(p.pathLen)
	s.cur = p
	return p
}

// follow re-stats a symbolic link through to its target. When the target
// is a directory and the stream changes directories, the current directory
// is remembered so the walk can come back to it after the descent.
func (s *Stream) follow(p *Entry) {
	p.info = s.stat(p, true)
	if p.info != InfoDir || s.isSet(NoChdir) {
		return
	}
	wd, err := s.fsys.Getwd()
	if err != nil {
		p.err = err
		p.info = InfoError
		return
	}
	p.symPath = wd
	p.flags |= entrySymFollow
}

// ascend moves from the last child tmp back up to its parent, which is
// visited in post-order.
func (s *Stream) ascend(tmp *Entry) (*Entry, error) {
	p := tmp.parent
	s.cur = p
	s.free(tmp)

	if p.level == RootParentLevel {
		s.free(p)
		s.cur = nil
		return nil, io.EOF
	}

	switch {
	case p.level == RootLevel:
		if err := s.chdir(s.rpath); err != nil {
			return nil, s.stop(err)
		}
	case p.flags&entrySymFollow != 0:
		err := s.chdir(p.symPath)
		p.symPath = ""
		if err != nil {
			return nil, s.stop(err)
		}
	case p.flags&entryDontChdir == 0:
		if err := s.chdir(".."); err != nil {
			return nil, s.stop(err)
		}
	}

	if p.err != nil {
		p.info = InfoError
	} else {
		p.info = InfoDirPost
	}
	return p, nil
}

// Children lists the entries of the current directory without moving the
// stream. Before the first Read it returns the roots. With namesOnly the
// entries carry names only and are classified InfoNoStatOK.
//
// Children returns nil when the current entry is not a directory in
// pre-order or the stream has stopped. The returned entries are owned by
// the stream and are released by the next Children or Read that does not
// descend into them.
func (s *Stream) Children(namesOnly bool) ([]*Entry, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.stopped || s.cur == nil {
		return nil, nil
	}

	p := s.cur
	if p.info == InfoInit {
		return listOf(p.link), nil
	}
	if p.info != InfoDir {
		return nil, nil
	}

	s.freeList(s.child)
	s.child = nil

	mode := buildChild
	s.nameOnly = namesOnly
	if namesOnly {
		mode = buildNames
	}

	if p.level != RootLevel || path.IsAbs(p.accpath) || s.isSet(NoChdir) {
		s.child = s.build(mode)
	} else {
		// A relative root is only reachable from the starting directory.
		wd, err := s.fsys.Getwd()
		if err != nil {
			return nil, &OpError{Op: "getwd", Path: ".", Err: err}
		}
		s.child = s.build(mode)
		if err := s.fsys.Chdir(wd); err != nil {
			s.freeList(s.child)
			s.child = nil
			return nil, s.stop(&OpError{Op: "chdir", Path: wd, Err: err})
		}
	}

	if s.child == nil && s.stopped {
		return nil, s.stopErr
	}
	return listOf(s.child), nil
}

// Set records an instruction for e, applied the next time the stream
// reaches it.
func (s *Stream) Set(e *Entry, instr Instr) error {
	if e == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidArgument)
	}
	switch instr {
	case InstrNone, InstrAgain, InstrFollow, InstrSkip:
	default:
		return fmt.Errorf("%w: instruction %d", ErrInvalidArgument, int(instr))
	}
	e.instr = instr
	return nil
}
