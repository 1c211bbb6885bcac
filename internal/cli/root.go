package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the fswalk command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fswalk",
		Short: "Walk file hierarchies",
		Long: `fswalk walks file hierarchies the way fts(3) does: pre-order and
post-order visits, physical or logical symbolic link handling, device
boundaries, cycle detection and sorted sibling order.

Roots may live on the OS filesystem, inside a sandbox directory (--sandbox)
or inside a zip archive (--zip).

Configuration is read from ` + "fswalk.yaml" + ` in the working directory (or --config),
then FSWALK_* environment variables, then flags.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Some entries could not be visited
  12 - Traversal stopped before visiting every root`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	root.PersistentFlags().String("config", "", "Config file (default ./fswalk.yaml)")
	root.PersistentFlags().String("env-file", ".env", "Load FSWALK_* variables from this file if it exists")

	root.AddCommand(newListCmd(), newDuCmd(), newSumCmd(), newVersionCmd())
	return root
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return NewRootCommand().Execute()
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
