package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fswalk/internal/config"
)

// walkFlags holds the traversal flags shared by every walking command.
type walkFlags struct {
	logical   bool
	physical  bool
	comFollow bool
	noChdir   bool
	noStat    bool
	xdev      bool
	seeDot    bool
	sort      string
	exclude   []string
	gitIgnore bool
	maxDepth  int
	batch     int
	retries   int
	sandbox   string
	zip       string
	postOrder bool
	format    string
}

func (f *walkFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVarP(&f.logical, "logical", "L", false, "Follow symbolic links")
	fl.BoolVarP(&f.physical, "physical", "P", false, "Do not follow symbolic links (default)")
	fl.BoolVarP(&f.comFollow, "comfollow", "H", false, "Follow symbolic links named as roots")
	fl.BoolVar(&f.noChdir, "nochdir", false, "Do not change directory while walking")
	fl.BoolVar(&f.noStat, "nostat", false, "Do not stat entries that are not directories")
	fl.BoolVar(&f.xdev, "xdev", false, "Do not descend into directories on other devices")
	fl.BoolVar(&f.seeDot, "seedot", false, "Report . and .. entries")
	fl.StringVar(&f.sort, "sort", "", "Sibling order: "+strings.Join(config.SortOrders, ", "))
	fl.StringSliceVar(&f.exclude, "exclude", nil, "Skip entries whose name or relative path matches a glob, ** allowed (repeatable)")
	fl.BoolVar(&f.gitIgnore, "gitignore", false, "Skip entries matched by each root's .gitignore")
	fl.IntVar(&f.maxDepth, "max-depth", -1, "Do not descend below this depth (-1 for unlimited)")
	fl.IntVar(&f.batch, "readdir-batch", 0, "Directory entries requested per read")
	fl.IntVar(&f.retries, "retries", 0, "Retry filesystem calls failing with transient errors this many times")
	fl.StringVar(&f.sandbox, "sandbox", "", "Walk inside this directory as if it were /")
	fl.StringVar(&f.zip, "zip", "", "Walk inside this zip archive")
	fl.BoolVar(&f.postOrder, "postorder", false, "Also report directories after their contents")
	fl.StringVarP(&f.format, "format", "o", "", "Output format: "+strings.Join(config.OutputFormats, ", "))

	cmd.MarkFlagsMutuallyExclusive("logical", "physical")
	cmd.MarkFlagsMutuallyExclusive("sandbox", "zip")
}

// apply overrides cfg with the flags the user set explicitly.
func (f *walkFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	w := &cfg.Walk

	if changed("logical") {
		w.Logical = f.logical
	}
	if changed("physical") && f.physical {
		w.Logical = false
	}
	if changed("comfollow") {
		w.ComFollow = f.comFollow
	}
	if changed("nochdir") {
		w.NoChdir = f.noChdir
	}
	if changed("nostat") {
		w.NoStat = f.noStat
	}
	if changed("xdev") {
		w.XDev = f.xdev
	}
	if changed("seedot") {
		w.SeeDot = f.seeDot
	}
	if changed("sort") {
		w.Sort = f.sort
	}
	if changed("exclude") {
		w.Exclude = append(w.Exclude, f.exclude...)
	}
	if changed("gitignore") {
		w.GitIgnore = f.gitIgnore
	}
	if changed("max-depth") {
		w.MaxDepth = f.maxDepth
	}
	if changed("readdir-batch") {
		w.ReadDirBatch = f.batch
	}
	if changed("retries") {
		w.Retries = f.retries
	}
	if changed("postorder") {
		cfg.Output.PostOrder = f.postOrder
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	return cfg.Validate()
}
