package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/ddms/internal/config"
	"github.com/vvka-141/ddms/internal/logging"
	"github.com/vvka-141/ddms/internal/schema"
	"github.com/vvka-141/ddms/pkg/ddms"
)

const (
	logFormatConsole = "console"
	logFormatJSON    = "json"
	logFormatNone    = "none"
	configFileHint   = config.ConfigFileName
	dotEnvFileName   = ".env"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	ddmsVersion string
	logFormat   string
	configDir   string
}

var globals = globalFlags{logFormat: logFormatConsole, configDir: "."}

// cliLogger is ddms.Logger plus the warning level the command line uses for
// non-fatal findings.
type cliLogger interface {
	ddms.Logger
	Warn(format string, args ...interface{})
}

// newLogger builds the logger selected by --log-format. The returned func
// flushes buffered output and must be called before exit.
func newLogger(format string, w io.Writer, verbose bool) (cliLogger, func(), error) {
	switch format {
	case "", logFormatConsole:
		return logging.NewConsoleLoggerTo(w, verbose), func() {}, nil
	case logFormatJSON:
		l, err := logging.NewZapLogger(verbose)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { _ = l.Sync() }, nil
	case logFormatNone:
		return logging.NewNullLogger(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown log format %q (want one of %s)", ddms.ErrUsage, format, strings.Join(logFormats, ", "))
}

// loadProjectConfig loads .env and ddms.yaml from dir, then applies
// environment overrides. A missing ddms.yaml yields the defaults. Variables
// already set in the environment win over .env.
func loadProjectConfig(dir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load(filepath.Join(dir, dotEnvFileName))

	cfg, err := config.Load(dir)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
		}
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is the state one command invocation works with.
type session struct {
	cfg      *config.ProjectConfig
	registry *ddms.Registry
	versions *ddms.VersionState
	// pinned is set when --ddms-version was given; reading then skips
	// version detection.
	pinned  *ddms.Version
	logger  cliLogger
	verbose bool
	close   func()
}

func newSession(cmd *cobra.Command) (*session, error) {
	verbose := getVerboseFlag(cmd)
	logger, closeLogger, err := newLogger(globals.logFormat, cmd.ErrOrStderr(), verbose)
	if err != nil {
		return nil, err
	}

	cfg, err := loadProjectConfig(globals.configDir)
	if err != nil {
		closeLogger()
		return nil, err
	}
	registry, err := cfg.Registry()
	if err != nil {
		closeLogger()
		return nil, err
	}
	versions, err := ddms.NewVersionState(registry, cfg.Version)
	if err != nil {
		closeLogger()
		return nil, fmt.Errorf("%s version: %w", config.ConfigFileName, err)
	}

	s := &session{cfg: cfg, registry: registry, versions: versions, logger: logger, verbose: verbose, close: closeLogger}
	if globals.ddmsVersion != "" {
		v, err := versions.SetCurrent(globals.ddmsVersion)
		if err != nil {
			closeLogger()
			return nil, err
		}
		s.pinned = v
		logger.Verbose("Using DDMS %s", v)
	}
	return s, nil
}

// version returns the version for commands that create documents: the
// pinned one, the configured one, or the newest.
func (s *session) version() *ddms.Version {
	v, err := s.versions.Current()
	if err != nil {
		return s.registry.Latest()
	}
	return v
}

// reader builds a ddms.Reader. schemaOverride, when non-nil, replaces the
// configured schemas.validate setting.
func (s *session) reader(schemaOverride *bool) (*ddms.Reader, error) {
	opts := []ddms.ReaderOption{ddms.WithRegistry(s.registry), ddms.WithLogger(s.logger)}

	validate := s.cfg.Schemas.Validate
	if schemaOverride != nil {
		validate = *schemaOverride
	}
	if validate {
		sv, err := schema.New(nil, s.cfg.Schemas.CacheSize, s.logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ddms.WithSchemaValidator(sv))
		s.logger.Verbose("XML Schema validation enabled")
	}
	return ddms.NewReader(s.pinned, opts...), nil
}

// boolFlagOverride returns the flag value when the user set it, nil
// otherwise.
func boolFlagOverride(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}
