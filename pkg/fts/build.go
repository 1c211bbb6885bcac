package fts

import (
	"errors"
	"io"
)

// build reads the directory of the current entry and returns its children
// as a linked list, or nil when there are none or an error occurred.
func (s *Stream) build(mode buildMode) *Entry {
	cur := s.cur

	dir, err := s.fsys.OpenDir(cur.accpath)
	if err != nil {
		if mode == buildRead {
			cur.info = InfoDirUnreadable
			cur.err = err
		}
		s.log.Verbose("fts: cannot read directory %s: %v", cur.accpath, err)
		return nil
	}

	// nlinks is the number of subdirectories still expected. With NoStat
	// and Physical the link count says how many children can be
	// directories; once it reaches zero the rest are not stat'ed. A
	// negative value stats everything.
	var (
		nlinks int
		nostat bool
	)
	switch {
	case mode == buildNames:
		nlinks, nostat = 0, true
	case s.isSet(NoStat) && s.isSet(Physical):
		nlinks = int(cur.nlink)
		if !s.isSet(SeeDot) {
			nlinks -= 2
		}
		nostat = true
	default:
		nlinks, nostat = -1, false
	}

	var cderr error
	descend := false
	if nlinks != 0 || mode == buildRead {
		if err := s.chdir(cur.accpath); err != nil {
			if nlinks != 0 && mode == buildRead {
				cur.err = err
			}
			cur.flags |= entryDontChdir
			cderr = err
			s.log.Verbose("fts: cannot enter %s: %v", cur.accpath, err)
		} else {
			descend = true
		}
	}

	base := s.nappend(cur)
	if s.isSet(NoChdir) {
		s.path.slash(base)
	}
	base++
	maxlen := s.path.cap() - base

	if cur.level == MaxLevel {
		_ = dir.Close()
		cur.info = InfoError
		s.stop(&OpError{Op: "build", Path: cur.accpath, Err: ErrNameTooLong})
		return nil
	}
	level := cur.level + 1

	var head, tail *Entry
	nitems := 0
	for {
		batch, rerr := dir.ReadDir(s.batch)
		for _, de := range batch {
			if !s.isSet(SeeDot) && isDot(de.Name) {
				continue
			}

			p := s.alloc(de.Name)
			namelen := len(de.Name)
			if namelen >= maxlen {
				if err := s.path.reserve(base + namelen + 1); err != nil {
					s.free(p)
					s.freeList(head)
					_ = dir.Close()
					cur.info = InfoError
					s.stop(&OpError{Op: "build", Path: cur.accpath, Err: err})
					return nil
				}
				s.log.Verbose("fts: path buffer grown to %d bytes", s.path.cap())
				maxlen = s.path.cap() - base
			}

			p.level = level
			p.pathLen = base + namelen
			p.parent = cur

			switch {
			case cderr != nil:
				if nlinks != 0 {
					p.info = InfoNoStat
					p.err = cderr
				} else {
					p.info = InfoNoStatOK
				}
				p.accpath = cur.accpath
			case nlinks == 0 || (nostat && de.Type != TypeDir && de.Type != TypeUnknown):
				s.setAccPath(p, base)
				p.info = InfoNoStatOK
			default:
				s.setAccPath(p, base)
				p.info = s.stat(p, false)
				if nlinks > 0 && (p.info == InfoDir || p.info == InfoCycle || p.info == InfoDot) {
					nlinks--
				}
			}

			if head == nil {
				head, tail = p, p
			} else {
				tail.link = p
				tail = p
			}
			nitems++
		}

		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				if mode == buildRead {
					cur.err = rerr
				}
				s.log.Verbose("fts: reading %s: %v", cur.accpath, rerr)
			}
			break
		}
		if len(batch) == 0 {
			break
		}
	}
	_ = dir.Close()

	// Children lists leave the working directory where it was, and so
	// does Read when there is nothing to descend into.
	if descend && (mode == buildChild || nitems == 0) {
		var err error
		if cur.level == RootLevel {
			err = s.chdir(s.rpath)
		} else {
			err = s.chdir("..")
		}
		if err != nil {
			s.freeList(head)
			cur.info = InfoError
			s.stop(err)
			return nil
		}
	}

	if nitems == 0 {
		if mode == buildRead {
			cur.info = InfoDirPost
		}
		return nil
	}

	if s.compare != nil && nitems > 1 {
		head = s.sort(head, nitems)
	}
	return head
}

// setAccPath sets the path used to reach p. Without chdir navigation it is
// the full path composed in the buffer after the parent's path.
func (s *Stream) setAccPath(p *Entry, base int) {
	if !s.isSet(NoChdir) {
		p.accpath = p.name
		return
	}
	s.path.put(base, p.name)
	p.accpath = s.path.String(p.pathLen)
	p.path = p.accpath
}
