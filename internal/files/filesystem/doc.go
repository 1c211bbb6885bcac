// Package filesystem provides backends for the fts traversal engine.
//
// Every backend implements fts.Backend and fts.ContentOpener.
//
// Implementations:
//   - OSFileSystem: the operating system, with device and inode numbers
//     from stat(2) where the platform exposes them
//   - MemoryFileSystem: an in-memory tree with symlinks, hard links, mount
//     points and fault injection, used by tests
//   - AferoFileSystem: any afero.Fs, for example a BasePathFs sandbox
//   - IOFileSystem: any io/fs.FS, for example embed.FS or a zip archive
//
// OSFileSystem shares the process working directory. The other backends
// keep their own working directory, so streams over them may change
// directories without affecting the rest of the program.
package filesystem
