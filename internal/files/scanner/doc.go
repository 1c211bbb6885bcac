// Package scanner walks file hierarchies with an fts stream and turns the
// visited entries into records.
//
// The scanner is responsible for:
//   - Pruning directories matched by exclude globs, the root .gitignore or
//     the depth limit, without reading them
//   - Collecting per-entry failures (unreadable directories, failed stats)
//     while the walk carries on
//   - Optionally digesting regular files as they are visited
//
// The scanner is filesystem-agnostic through filesystem.Backend, so the same
// code walks the OS, an afero sandbox, an archive or an in-memory tree.
package scanner
