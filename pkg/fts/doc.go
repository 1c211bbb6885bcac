// Package fts walks file hierarchies one entry at a time.
//
// A Stream is opened over one or more root paths and yields every reachable
// object in depth-first order. Directories are visited twice: once before
// their children (InfoDir) and once after (InfoDirPost). Between visits the
// caller may steer the walk with Set (skip a directory, follow a symlink,
// re-stat an entry) or inspect the children of the current directory with
// Children.
//
// The engine never touches the operating system directly. All filesystem
// access goes through a Backend, so the same traversal runs against the
// real filesystem, an in-memory tree, an afero.Fs or an io/fs.FS.
//
// Basic usage:
//
//	s, err := fts.Open(backend, []string{"."}, fts.Physical, nil)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	for {
//	    e, err := s.Read()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(e.Info(), e.Path())
//	}
//
// # Navigation
//
// By default the stream changes the backend's working directory while it
// descends so that children can be addressed by their bare names. With
// NoChdir (implied by Logical) full paths are composed instead and the
// working directory is never changed, which is the only mode that is safe
// when other goroutines share the backend.
//
// # Ownership
//
// Entries belong to the stream. An entry returned by Read stays valid until
// the stream advances past it; its Path string never changes afterwards.
// The Number and Pointer fields are reserved for the caller.
//
// A Stream is not safe for concurrent use.
package fts
