package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fswalk/internal/checksum"
	"github.com/vvka-141/fswalk/internal/config"
	"github.com/vvka-141/fswalk/internal/files/scanner"
	"github.com/vvka-141/fswalk/pkg/fts"
)

func newSumCmd() *cobra.Command {
	var (
		flags walkFlags
		hash  string
	)
	cmd := &cobra.Command{
		Use:   "sum [path...]",
		Short: "Checksum every regular file below each root",
		Long: `Sum digests the content of every regular file below the given roots and
prints one line per file in the format of sha256sum.`,
		Example: `  fswalk sum ./dist --hash sha256
  fswalk sum --gitignore . -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSum(cmd, args, &flags, hash)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&hash, "hash", "", "Digest algorithm: xxhash, sha256")
	return cmd
}

func runSum(cmd *cobra.Command, args []string, flags *walkFlags, hash string) error {
	s, err := newSession(cmd, args, flags)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("hash") {
		s.cfg.Hash = hash
	}
	calc, err := checksum.New(s.cfg.Hash)
	if err != nil {
		return s.finish(fmt.Errorf("%w: %v", config.ErrInvalidConfig, err))
	}
	opts, err := s.options()
	if err != nil {
		return s.finish(err)
	}
	// Digests need regular files to be recognized.
	opts.Flags &^= fts.NoStat
	opts.Digest = calc
	opts.PostOrder = false

	result, walkErr := s.scanner.Scan(cmd.Context(), s.roots, opts)
	if walkErr != nil && !errors.Is(walkErr, scanner.ErrPartial) {
		return s.finish(walkErr)
	}
	s.progress.Finish()
	if err := s.writer.Checksums(s.header, calc.Name(), result.Records); err != nil {
		return s.finish(err)
	}
	return s.finish(walkErr)
}
