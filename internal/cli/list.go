package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fswalk/internal/files/scanner"
)

func newListCmd() *cobra.Command {
	var flags walkFlags
	cmd := &cobra.Command{
		Use:   "list [path...]",
		Short: "List the entries below each root",
		Long: `List visits every entry below the given roots (default ".") and prints
its fts category and path. Directories are visited before their contents;
with --postorder they are reported again afterwards.`,
		Example: `  fswalk list ./src --exclude '*.o' --gitignore
  fswalk list -L --xdev / --max-depth 2 -o table
  fswalk list --zip release.zip -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runList(cmd *cobra.Command, args []string, flags *walkFlags) error {
	s, err := newSession(cmd, args, flags)
	if err != nil {
		return err
	}
	opts, err := s.options()
	if err != nil {
		return s.finish(err)
	}

	result, walkErr := s.scanner.Scan(cmd.Context(), s.roots, opts)
	if walkErr != nil && !errors.Is(walkErr, scanner.ErrPartial) {
		return s.finish(walkErr)
	}
	s.progress.Finish()
	if err := s.writer.Records(s.header, result.Records); err != nil {
		return s.finish(err)
	}
	s.log.Verbose("%d files, %d directories", result.Files, result.Dirs)
	return s.finish(walkErr)
}
