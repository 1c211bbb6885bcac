package usage

import (
	"context"

	"github.com/vvka-141/fswalk/internal/files/scanner"
	"github.com/vvka-141/fswalk/pkg/fts"
)

// Row is the total size below one directory, or of one root file.
type Row struct {
	Path  string `json:"path" yaml:"path"`
	Level int    `json:"level" yaml:"level"`
	Size  int64  `json:"size" yaml:"size"`
}

// Report lists rows in post-order, so every directory follows its
// subdirectories, and the sum over all roots.
type Report struct {
	Rows  []Row `json:"rows" yaml:"rows"`
	Total int64 `json:"total" yaml:"total"`
}

type fileID struct {
	dev, ino uint64
}

// Compute walks roots and reports directories down to depth levels below
// them; a negative depth reports every directory. Exclusions in opts
// apply, while depth limits and stat suppression are overridden because
// every size is needed.
//
// The report is valid when the error wraps scanner.ErrPartial; unreadable
// directories then contribute nothing.
func Compute(ctx context.Context, sc *scanner.Scanner, roots []string, opts scanner.Options, depth int) (Report, error) {
	opts.Flags &^= fts.NoStat
	opts.MaxDepth = -1
	opts.PostOrder = true
	opts.Digest = nil

	var report Report
	seen := make(map[fileID]struct{})

	err := sc.Walk(ctx, roots, opts, func(e *fts.Entry) error {
		st := e.Stat()
		switch e.Info() {
		case fts.InfoDir:
			e.Number = 0
			return nil
		case fts.InfoDirPost:
		case fts.InfoError:
			if st == nil || !st.IsDir() {
				return nil
			}
		case fts.InfoFile, fts.InfoSymlink, fts.InfoSymlinkDangling, fts.InfoDefault:
			if st == nil {
				return nil
			}
			if st.Nlink > 1 {
				id := fileID{st.Dev, st.Ino}
				if _, dup := seen[id]; dup {
					return nil
				}
				seen[id] = struct{}{}
			}
			e.Number = st.Size
		default:
			return nil
		}

		if st != nil && st.IsDir() {
			e.Number += st.Size
		}
		if e.Level() > fts.RootLevel {
			e.Parent().Number += e.Number
		} else {
			report.Total += e.Number
		}
		if (isDirInfo(e.Info()) && (depth < 0 || e.Level() <= depth)) || e.Level() == fts.RootLevel {
			report.Rows = append(report.Rows, Row{Path: e.Path(), Level: e.Level(), Size: e.Number})
		}
		return nil
	})
	return report, err
}

func isDirInfo(i fts.Info) bool {
	return i == fts.InfoDirPost || i == fts.InfoError
}
