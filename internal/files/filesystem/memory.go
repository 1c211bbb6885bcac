package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// maxSymlinks bounds symbolic link resolution, as SYMLOOP_MAX does.
const maxSymlinks = 40

type memNode struct {
	name     string
	mode     fs.FileMode
	dev      uint64
	ino      uint64
	nlink    uint64
	content  []byte
	target   string
	modTime  time.Time
	parent   *memNode
	children map[string]*memNode
	order    []string
}

func (n *memNode) isDir() bool     { return n.mode.IsDir() }
func (n *memNode) isSymlink() bool { return n.mode&fs.ModeSymlink != 0 }

// MemoryFileSystem is an in-memory fts backend for tests.
//
// Directories list "." and ".." first and then their children in the
// order they were added. Builder methods take slash-separated paths,
// absolute or relative to the directory given to NewMemoryFileSystem,
// and panic when a path cannot be created.
type MemoryFileSystem struct {
	mu        sync.Mutex
	root      *memNode
	base      *memNode
	cwd       *memNode
	nextIno   uint64
	nextDev   uint64
	hideTypes bool
	faults    map[*memNode]map[Op]error
	calls     map[Op]int
}

// NewMemoryFileSystem creates an empty tree containing the directory cwd,
// which becomes the working directory.
func NewMemoryFileSystem(cwd string) *MemoryFileSystem {
	mfs := &MemoryFileSystem{
		nextIno: 2,
		nextDev: 1,
		faults:  make(map[*memNode]map[Op]error),
		calls:   make(map[Op]int),
	}
	mfs.root = mfs.newNode("/", fs.ModeDir|0o755, nil)
	mfs.root.dev = mfs.nextDev
	mfs.base = mfs.mkdirAll(filepath.ToSlash(cwd))
	mfs.cwd = mfs.base
	return mfs
}

func (m *MemoryFileSystem) newNode(name string, mode fs.FileMode, parent *memNode) *memNode {
	n := &memNode{
		name:    name,
		mode:    mode,
		ino:     m.nextIno,
		nlink:   1,
		modTime: time.Now(),
		parent:  parent,
	}
	m.nextIno++
	if parent != nil {
		n.dev = parent.dev
	}
	if mode.IsDir() {
		n.children = make(map[string]*memNode)
	}
	return n
}

func (m *MemoryFileSystem) builderPath(p string) string {
	return virtualPath(m.pathOf(m.base), filepath.ToSlash(p))
}

// mkdirAll creates every missing directory of an absolute path.
func (m *MemoryFileSystem) mkdirAll(abs string) *memNode {
	n := m.root
	for _, part := range strings.Split(abs, "/") {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			if n.parent != nil {
				n = n.parent
			}
			continue
		}
		child, ok := n.children[part]
		if !ok {
			child = m.newNode(part, fs.ModeDir|0o755, n)
			m.link(n, child)
		}
		if !child.isDir() {
			panic(fmt.Sprintf("filesystem: %s is not a directory", m.pathOf(child)))
		}
		n = child
	}
	return n
}

func (m *MemoryFileSystem) link(dir, child *memNode) {
	if _, exists := dir.children[child.name]; !exists {
		dir.order = append(dir.order, child.name)
	}
	dir.children[child.name] = child
}

func (m *MemoryFileSystem) create(p string, mode fs.FileMode) *memNode {
	abs := m.builderPath(p)
	dir := m.mkdirAll(path.Dir(abs))
	name := path.Base(abs)
	if _, exists := dir.children[name]; exists {
		panic(fmt.Sprintf("filesystem: %s already exists", abs))
	}
	n := m.newNode(name, mode, dir)
	m.link(dir, n)
	return n
}

// AddFile adds a regular file, creating parent directories as needed.
func (m *MemoryFileSystem) AddFile(p string, content string) {
	m.AddFileWithTime(p, content, time.Now())
}

// AddFileWithTime adds a regular file with a specific modification time.
func (m *MemoryFileSystem) AddFileWithTime(p string, content string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.create(p, 0o644)
	n.content = []byte(content)
	n.modTime = modTime
}

// AddDir adds a directory and its missing parents.
func (m *MemoryFileSystem) AddDir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(m.builderPath(p))
}

// AddSymlink adds a symbolic link pointing at target. The target is not
// required to exist.
func (m *MemoryFileSystem) AddSymlink(p, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.create(p, fs.ModeSymlink|0o777)
	n.target = target
}

// AddHardLink adds another name for an existing regular file.
func (m *MemoryFileSystem) AddHardLink(existing, p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, err := m.resolve(m.builderPath(existing), false)
	if err != nil || !target.mode.IsRegular() {
		panic(fmt.Sprintf("filesystem: cannot link to %s", existing))
	}
	abs := m.builderPath(p)
	dir := m.mkdirAll(path.Dir(abs))
	if _, exists := dir.children[path.Base(abs)]; exists {
		panic(fmt.Sprintf("filesystem: %s already exists", abs))
	}
	dir.order = append(dir.order, path.Base(abs))
	dir.children[path.Base(abs)] = target
	target.nlink++
}

// Mount creates a directory on a new device. Everything added below it
// shares that device.
func (m *MemoryFileSystem) Mount(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.create(p, fs.ModeDir|0o755)
	m.nextDev++
	n.dev = m.nextDev
}

// Fail makes op on the object at p return err until cleared with a nil
// error. Symbolic links in p are followed, except that OpLstat applies
// to the link itself.
func (m *MemoryFileSystem) Fail(p string, op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, rerr := m.resolve(m.builderPath(p), op != OpLstat)
	if rerr != nil {
		panic(fmt.Sprintf("filesystem: cannot inject fault at %s: %v", p, rerr))
	}
	if err == nil {
		delete(m.faults[n], op)
		return
	}
	if m.faults[n] == nil {
		m.faults[n] = make(map[Op]error)
	}
	m.faults[n][op] = err
}

// HideTypes makes directory listings report fts.TypeUnknown, as some
// filesystems do.
func (m *MemoryFileSystem) HideTypes(hide bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hideTypes = hide
}

// Calls returns how many times op was invoked.
func (m *MemoryFileSystem) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// ResetCalls clears the call counters.
func (m *MemoryFileSystem) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[Op]int)
}

func (m *MemoryFileSystem) pathOf(n *memNode) string {
	if n.parent == nil {
		return "/"
	}
	var parts []string
	for ; n.parent != nil; n = n.parent {
		parts = append(parts, n.name)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

func (m *MemoryFileSystem) resolve(name string, follow bool) (*memNode, error) {
	hops := 0
	return m.walk(m.cwd, name, follow, &hops)
}

func (m *MemoryFileSystem) walk(start *memNode, name string, follow bool, hops *int) (*memNode, error) {
	if name == "" {
		return nil, fs.ErrNotExist
	}
	n := start
	if strings.HasPrefix(name, "/") {
		n = m.root
	}
	if strings.HasSuffix(name, "/") {
		follow = true
	}
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '/' })
	for i, part := range parts {
		if !n.isDir() {
			return nil, syscall.ENOTDIR
		}
		switch part {
		case ".":
			continue
		case "..":
			if n.parent != nil {
				n = n.parent
			}
			continue
		}
		child, ok := n.children[part]
		if !ok {
			return nil, fs.ErrNotExist
		}
		if child.isSymlink() && (follow || i < len(parts)-1) {
			*hops++
			if *hops > maxSymlinks {
				return nil, syscall.ELOOP
			}
			target, err := m.walk(n, child.target, true, hops)
			if err != nil {
				return nil, err
			}
			child = target
		}
		n = child
	}
	return n, nil
}

// lookup resolves name for op and applies injected faults.
func (m *MemoryFileSystem) lookup(op Op, name string, follow bool) (*memNode, error) {
	m.calls[op]++
	n, err := m.resolve(name, follow)
	if err != nil {
		return nil, &fs.PathError{Op: string(op), Path: name, Err: err}
	}
	if ferr := m.faults[n][op]; ferr != nil {
		return nil, &fs.PathError{Op: string(op), Path: name, Err: ferr}
	}
	return n, nil
}

func (m *MemoryFileSystem) attr(n *memNode) fts.Attr {
	a := fts.Attr{
		Dev:     n.dev,
		Ino:     n.ino,
		Nlink:   n.nlink,
		Mode:    n.mode,
		ModTime: n.modTime,
	}
	switch {
	case n.isDir():
		a.Nlink = 2
		for _, c := range n.children {
			if c.isDir() && c.parent == n {
				a.Nlink++
			}
		}
	case n.isSymlink():
		a.Size = int64(len(n.target))
	default:
		a.Size = int64(len(n.content))
	}
	return a
}

// Stat implements fts.Backend.
func (m *MemoryFileSystem) Stat(name string) (fts.Attr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.lookup(OpStat, name, true)
	if err != nil {
		return fts.Attr{}, err
	}
	return m.attr(n), nil
}

// Lstat implements fts.Backend.
func (m *MemoryFileSystem) Lstat(name string) (fts.Attr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.lookup(OpLstat, name, false)
	if err != nil {
		return fts.Attr{}, err
	}
	return m.attr(n), nil
}

// Chdir implements fts.Backend.
func (m *MemoryFileSystem) Chdir(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.lookup(OpChdir, name, true)
	if err != nil {
		return err
	}
	if !n.isDir() {
		return &fs.PathError{Op: string(OpChdir), Path: name, Err: syscall.ENOTDIR}
	}
	m.cwd = n
	return nil
}

// Getwd implements fts.Backend.
func (m *MemoryFileSystem) Getwd() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[OpGetwd]++
	if ferr := m.faults[m.cwd][OpGetwd]; ferr != nil {
		return "", &fs.PathError{Op: string(OpGetwd), Path: ".", Err: ferr}
	}
	return m.pathOf(m.cwd), nil
}

// OpenDir implements fts.Backend.
func (m *MemoryFileSystem) OpenDir(name string) (fts.DirReader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.lookup(OpOpenDir, name, true)
	if err != nil {
		return nil, err
	}
	if !n.isDir() {
		return nil, &fs.PathError{Op: string(OpOpenDir), Path: name, Err: syscall.ENOTDIR}
	}
	entries := dotEntries()
	for _, childName := range n.order {
		entries = append(entries, fts.DirEntry{Name: childName, Type: fts.TypeOf(n.children[childName].mode)})
	}
	if m.hideTypes {
		for i := range entries {
			entries[i].Type = fts.TypeUnknown
		}
	}
	var tail error
	if ferr := m.faults[n][OpReadDir]; ferr != nil {
		tail = &fs.PathError{Op: string(OpReadDir), Path: name, Err: ferr}
	}
	return newSliceDir(entries, tail), nil
}

// Open implements fts.ContentOpener.
func (m *MemoryFileSystem) Open(name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.lookup(OpOpen, name, true)
	if err != nil {
		return nil, err
	}
	if n.isDir() {
		return nil, &fs.PathError{Op: string(OpOpen), Path: name, Err: syscall.EISDIR}
	}
	return io.NopCloser(bytes.NewReader(n.content)), nil
}
