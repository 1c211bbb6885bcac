package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fswalk/internal/files/scanner"
	"github.com/vvka-141/fswalk/internal/usage"
)

func newDuCmd() *cobra.Command {
	var (
		flags     walkFlags
		depth     int
		summarize bool
	)
	cmd := &cobra.Command{
		Use:   "du [path...]",
		Short: "Report the apparent size of each directory",
		Long: `Du totals the apparent size of everything below each directory and
prints one line per directory, deepest first. Files with several hard links
are counted once.`,
		Example: `  fswalk du ~/projects --depth 1
  fswalk du -s --exclude node_modules .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if summarize {
				depth = 0
			}
			return runDu(cmd, args, &flags, depth)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "Report directories at most this deep (-1 for all)")
	cmd.Flags().BoolVarP(&summarize, "summarize", "s", false, "Report each root only")
	cmd.MarkFlagsMutuallyExclusive("depth", "summarize")
	return cmd
}

func runDu(cmd *cobra.Command, args []string, flags *walkFlags, depth int) error {
	s, err := newSession(cmd, args, flags)
	if err != nil {
		return err
	}
	opts, err := s.options()
	if err != nil {
		return s.finish(err)
	}

	report, walkErr := usage.Compute(cmd.Context(), s.scanner, s.roots, opts, depth)
	if walkErr != nil && !errors.Is(walkErr, scanner.ErrPartial) {
		return s.finish(walkErr)
	}
	s.progress.Finish()
	if err := s.writer.Usage(s.header, report); err != nil {
		return s.finish(err)
	}
	return s.finish(walkErr)
}
