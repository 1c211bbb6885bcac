package cli

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/vvka-141/fswalk/internal/config"
	"github.com/vvka-141/fswalk/internal/files/filesystem"
	"github.com/vvka-141/fswalk/internal/files/scanner"
	"github.com/vvka-141/fswalk/internal/logging"
	"github.com/vvka-141/fswalk/internal/output"
	"github.com/vvka-141/fswalk/internal/ui"
)

// session carries everything a walking command needs.
type session struct {
	cfg      *config.Config
	log      *logging.ConsoleLogger
	fsys     filesystem.Backend
	scanner  *scanner.Scanner
	writer   output.Writer
	header   output.Header
	roots    []string
	progress *ui.Progress
	closers  []io.Closer
}

// loadConfig merges defaults, the config file, the env file and FSWALK_*
// variables, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return nil, fmt.Errorf("%w: env file %s: %v", config.ErrInvalidConfig, envFile, err)
		}
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.LoadFile(cfgPath)
	} else {
		cfg, err = config.Load(".")
		if errors.Is(err, config.ErrConfigNotFound) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func verboseFromEnv(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("verbose") {
		return getVerboseFlag(cmd)
	}
	if v, ok := os.LookupEnv("FSWALK_VERBOSE"); ok {
		b, _ := strconv.ParseBool(v)
		return b
	}
	return getVerboseFlag(cmd)
}

// newSession resolves configuration, the backend and the output writer
// for one command invocation.
func newSession(cmd *cobra.Command, args []string, flags *walkFlags) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	s := &session{
		cfg: cfg,
		log: logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), verboseFromEnv(cmd)).WithField("run", runID),
	}

	s.roots = args
	if len(s.roots) == 0 {
		s.roots = []string{"."}
	}
	if flags.sandbox == "" && flags.zip == "" {
		for i, r := range s.roots {
			if s.roots[i], err = homedir.Expand(r); err != nil {
				return nil, err
			}
		}
	}

	if err := s.openBackend(flags); err != nil {
		return nil, err
	}

	s.writer, err = output.New(cfg.Output.Format, cmd.OutOrStdout())
	if err != nil {
		s.close()
		return nil, err
	}
	s.scanner = scanner.NewScanner(s.fsys, s.log)
	s.header = output.Header{RunID: runID, Command: cmd.Name(), Roots: s.roots, Started: time.Now().UTC()}
	s.progress = ui.ForMode(ui.DetectMode(), cmd.ErrOrStderr(), cmd.Name())

	s.log.Verbose("walking %v with flags %#x", s.roots, int(cfg.Walk.Flags()))
	return s, nil
}

func (s *session) openBackend(flags *walkFlags) error {
	switch {
	case flags.sandbox != "":
		dir, err := homedir.Expand(flags.sandbox)
		if err != nil {
			return err
		}
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("sandbox: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("sandbox: %s is not a directory", dir)
		}
		s.log.Verbose("sandboxed in %s", dir)
		s.fsys = filesystem.NewSandboxFileSystem(dir)
	case flags.zip != "":
		path, err := homedir.Expand(flags.zip)
		if err != nil {
			return err
		}
		zr, err := zip.OpenReader(path)
		if err != nil {
			return fmt.Errorf("zip: %w", err)
		}
		s.closers = append(s.closers, zr)
		s.log.Verbose("reading archive %s", path)
		s.fsys = filesystem.NewIOFileSystem(&zr.Reader)
	default:
		s.fsys = filesystem.NewOSFileSystem()
	}
	if n := s.cfg.Walk.Retries; n > 0 {
		s.fsys = filesystem.NewRetryingFileSystem(s.fsys, n, s.log)
	}
	return nil
}

// options builds scanner options from the merged configuration.
func (s *session) options() (scanner.Options, error) {
	compare, err := scanner.Order(s.cfg.Walk.Sort)
	if err != nil {
		return scanner.Options{}, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	return scanner.Options{
		Flags:        s.cfg.Walk.Flags(),
		Compare:      compare,
		Exclude:      s.cfg.Walk.Exclude,
		GitIgnore:    s.cfg.Walk.GitIgnore,
		MaxDepth:     s.cfg.Walk.MaxDepth,
		PostOrder:    s.cfg.Output.PostOrder,
		ReadDirBatch: s.cfg.Walk.ReadDirBatch,
		Progress:     s.progress.Visit,
	}, nil
}

// finish releases the session. Partial failures have already been
// rendered with their entries and only decide the exit code.
func (s *session) finish(walkErr error) error {
	s.progress.Finish()
	s.close()
	return walkErr
}

func (s *session) close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.log.Verbose("close: %v", err)
		}
	}
	s.closers = nil
}
