package fts

import "math"

// Flag selects traversal behavior. Flags are combined with bitwise OR.
type Flag int

const (
	// ComFollow follows symbolic links named as roots.
	ComFollow Flag = 1 << iota
	// Logical follows every symbolic link. Implies NoChdir.
	Logical
	// NoChdir composes full paths instead of changing the working directory.
	NoChdir
	// NoStat skips stat for children when the link count or the directory
	// entry type shows they cannot be directories.
	NoStat
	// Physical reports symbolic links as links without following them.
	Physical
	// SeeDot reports "." and ".." entries found in directories.
	SeeDot
	// XDev does not descend into directories on a different device than
	// the root.
	XDev

	flagMask = ComFollow | Logical | NoChdir | NoStat | Physical | SeeDot | XDev
)

// Info classifies an entry.
type Info int

const (
	_                   Info = iota
	InfoDir                  // directory, pre-order
	InfoCycle                // directory that is an ancestor of itself
	InfoDefault              // none of the other categories
	InfoDirUnreadable        // directory that could not be opened
	InfoDot                  // "." or ".." entry
	InfoDirPost              // directory, post-order
	InfoError                // error, see Err
	InfoFile                 // regular file
	InfoInit                 // synthetic starting state
	InfoNoStat               // stat failed, see Err
	InfoNoStatOK             // stat not requested
	InfoSymlink              // symbolic link
	InfoSymlinkDangling      // symbolic link to a missing target
)

var infoNames = map[Info]string{
	InfoDir:             "D",
	InfoCycle:           "DC",
	InfoDefault:         "DEFAULT",
	InfoDirUnreadable:   "DNR",
	InfoDot:             "DOT",
	InfoDirPost:         "DP",
	InfoError:           "ERR",
	InfoFile:            "F",
	InfoInit:            "INIT",
	InfoNoStat:          "NS",
	InfoNoStatOK:        "NSOK",
	InfoSymlink:         "SL",
	InfoSymlinkDangling: "SLNONE",
}

// String returns the short category code, for example "D" or "SLNONE".
func (i Info) String() string {
	if name, ok := infoNames[i]; ok {
		return name
	}
	return "UNKNOWN"
}

// Instr is a per-entry instruction applied on the next Read.
type Instr int

const (
	InstrNone   Instr = iota // no instruction
	InstrAgain               // visit the entry again with fresh stat data
	InstrFollow              // follow the symbolic link
	InstrSkip                // do not descend into the directory
)

// Entry levels.
const (
	RootParentLevel = -1
	RootLevel       = 0

	// MaxLevel is the deepest level the stream descends to.
	MaxLevel = math.MaxInt16
)

const (
	// MaxPathLen is the minimum path buffer size allocated by Open.
	MaxPathLen = 1024

	// MaxPathBuffer bounds path buffer growth.
	MaxPathBuffer = math.MaxUint16 + 1

	// DefaultReadDirBatch is the number of directory entries requested
	// from the backend per call.
	DefaultReadDirBatch = 4096

	// sortSlack is the extra room added whenever the sort scratch grows.
	sortSlack = 40
)

type buildMode int

const (
	buildRead  buildMode = iota // descending during Read
	buildChild                  // Children, stat as usual
	buildNames                  // Children, names only
)

const (
	entryDontChdir = 1 << iota // directory could not be entered
	entrySymFollow             // followed link, return via saved directory
)
