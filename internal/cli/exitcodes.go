package cli

import (
	"errors"
	"strings"

	"github.com/vvka-141/fswalk/internal/config"
	"github.com/vvka-141/fswalk/internal/files/scanner"
	"github.com/vvka-141/fswalk/pkg/fts"
)

// Exit codes for fswalk CLI.
const (
	ExitSuccess      = 0  // Walk completed without problems
	ExitGeneralError = 1  // Unknown or unclassified error
	ExitUsageError   = 2  // CLI usage error (invalid arguments or flags)
	ExitPanic        = 3  // Internal panic (unexpected crash)
	ExitConfigError  = 10 // Invalid configuration
	ExitPartial      = 11 // Some entries could not be visited
	ExitStopped      = 12 // Traversal stopped before visiting every root
)

// usagePatterns are the prefixes cobra and pflag use for usage errors.
var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"invalid argument",
	"required flag",
	"if any flags in the group",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrConfigNotFound):
		return ExitConfigError
	case errors.Is(err, scanner.ErrStopped):
		return ExitStopped
	case errors.Is(err, scanner.ErrPartial):
		return ExitPartial
	case errors.Is(err, scanner.ErrBadPattern), errors.Is(err, fts.ErrInvalidArgument):
		return ExitUsageError
	}

	msg := err.Error()
	for _, p := range usagePatterns {
		if strings.HasPrefix(msg, p) {
			return ExitUsageError
		}
	}
	return ExitGeneralError
}
