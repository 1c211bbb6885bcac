package fts

import "strings"

// Entry is one object in the hierarchy.
//
// Entries are owned by the Stream. An entry stays valid until the stream
// advances past it; after that only Name and Path are meaningful.
type Entry struct {
	// Number and Pointer are never touched by the stream.
	Number  int64
	Pointer any

	name    string
	path    string
	accpath string
	symPath string
	pathLen int
	level   int
	info    Info
	instr   Instr
	err     error
	flags   int

	dev   uint64
	ino   uint64
	nlink uint64
	stat  *Attr

	parent *Entry
	link   *Entry
	cycle  *Entry

	freed bool
}

// Info returns the entry category.
func (e *Entry) Info() Info { return e.info }

// Name returns the file name. For roots it is the last element of the
// path given to Open; "/" stays "/".
func (e *Entry) Name() string { return e.name }

// Path returns the path from the root as given to Open.
func (e *Entry) Path() string {
	if e.path != "" || e.parent == nil || e.level <= RootLevel {
		return e.path
	}
	parent := e.parent.Path()
	if strings.HasSuffix(parent, "/") {
		return parent + e.name
	}
	return parent + "/" + e.name
}

// AccPath returns the path that reaches the entry from the backend's
// current working directory.
func (e *Entry) AccPath() string { return e.accpath }

// Level returns the depth: RootLevel for roots, RootParentLevel for the
// synthetic parent of the roots.
func (e *Entry) Level() int { return e.level }

// Err returns the error recorded for NS, DNR and ERR entries.
func (e *Entry) Err() error { return e.err }

// Stat returns the attributes from the last classification, or nil when
// the stream was opened with NoStat or the entry was not stat'ed.
func (e *Entry) Stat() *Attr {
	if e.stat == nil || e.info == InfoNoStatOK || e.info == InfoInit {
		return nil
	}
	return e.stat
}

// Dev, Ino and Nlink are recorded for directories only.
func (e *Entry) Dev() uint64   { return e.dev }
func (e *Entry) Ino() uint64   { return e.ino }
func (e *Entry) Nlink() uint64 { return e.nlink }

// Parent returns the parent directory entry. Roots return the synthetic
// root parent at RootParentLevel.
func (e *Entry) Parent() *Entry { return e.parent }

// Cycle returns the ancestor that an InfoCycle entry duplicates.
func (e *Entry) Cycle() *Entry { return e.cycle }

// Link returns the next sibling in a list returned by Children.
func (e *Entry) Link() *Entry { return e.link }

func (e *Entry) setStat(a Attr) {
	if e.stat != nil {
		*e.stat = a
	}
}

func (s *Stream) alloc(name string) *Entry {
	e := &Entry{name: name, instr: InstrNone}
	if !s.isSet(NoStat) {
		e.stat = &Attr{}
	}
	s.live++
	return e
}

func (s *Stream) free(e *Entry) {
	if e == nil || e.freed {
		return
	}
	e.freed = true
	e.stat = nil
	e.link = nil
	e.symPath = ""
	s.live--
}

func (s *Stream) freeList(head *Entry) {
	for p := head; p != nil; {
		next := p.link
		s.free(p)
		p = next
	}
}

func listOf(head *Entry) []*Entry {
	var out []*Entry
	for p := head; p != nil; p = p.link {
		out = append(out, p)
	}
	return out
}

func isDot(name string) bool {
	return name == "." || name == ".."
}

// rootName returns the final element of a root path, ignoring trailing
// slashes. Paths made only of slashes are returned unchanged.
func rootName(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return path
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
