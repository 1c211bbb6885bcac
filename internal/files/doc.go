// Package files groups the filesystem side of fswalk into sub-packages:
//   - filesystem: backends the traversal runs on (OS, sandbox, io/fs, in-memory)
//     plus a decorator retrying transient failures
//   - scanner: walks roots with an fts stream, prunes and records entries
//
// # Usage
//
//	fsys := filesystem.NewOSFileSystem()
//	sc := scanner.NewScanner(fsys, logging.NewConsoleLogger(false))
//	result, err := sc.Scan(ctx, []string{"./src"}, scanner.Options{
//	    Flags:    fts.Physical,
//	    Compare:  fts.ByName,
//	    MaxDepth: -1,
//	})
package files
