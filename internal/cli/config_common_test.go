package cli

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddms/internal/config"
	"github.com/vvka-141/ddms/internal/logging"
	"github.com/vvka-141/ddms/pkg/ddms"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	l, closeFn, err := newLogger("", &buf, true)
	require.NoError(t, err)
	assert.IsType(t, &logging.ConsoleLogger{}, l)
	l.Warn("empty %s", "dates")
	closeFn()
	assert.Equal(t, "[WARN] empty dates\n", buf.String())

	l, closeFn, err = newLogger(logFormatJSON, &buf, false)
	require.NoError(t, err)
	assert.IsType(t, &logging.ZapLogger{}, l)
	closeFn()

	l, _, err = newLogger(logFormatNone, &buf, true)
	require.NoError(t, err)
	l.Error("dropped")
	assert.Equal(t, "[WARN] empty dates\n", buf.String())

	_, _, err = newLogger("yaml", &buf, false)
	assert.True(t, errors.Is(err, ddms.ErrUsage))
}

func TestLoadProjectConfig(t *testing.T) {
	t.Setenv(config.EnvVersion, "")
	t.Setenv(config.EnvFormat, "")
	t.Setenv(config.EnvSchemaDir, "")
	t.Setenv(config.EnvValidateSchema, "")

	cfg, err := loadProjectConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	dir := t.TempDir()
	writeFile(t, dir, config.ConfigFileName, "version: \"3.0\"\nformat: text\n")
	t.Setenv(config.EnvFormat, "xml")

	cfg, err = loadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "3.0", cfg.Version)
	assert.Equal(t, "xml", cfg.Format)

	t.Setenv(config.EnvValidateSchema, "sometimes")
	_, err = loadProjectConfig(dir)
	assert.True(t, errors.Is(err, ddms.ErrInvalidConfig))

	bad := t.TempDir()
	writeFile(t, bad, config.ConfigFileName, "version: [\n")
	t.Setenv(config.EnvValidateSchema, "")
	_, err = loadProjectConfig(bad)
	assert.True(t, errors.Is(err, ddms.ErrInvalidConfig))
}

func TestLoadProjectConfig_DotEnvInConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", config.EnvFormat+"=html\n"+config.EnvVersion+"=3.1\n")

	// t.Setenv restores both afterwards.
	t.Setenv(config.EnvFormat, "")
	t.Setenv(config.EnvVersion, "4.1")
	require.NoError(t, os.Unsetenv(config.EnvFormat))

	cfg, err := loadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, "4.1", cfg.Version)
}

func TestSession_VersionPrecedence(t *testing.T) {
	t.Setenv(config.EnvVersion, "")
	origGlobals := globals
	defer func() { globals = origGlobals }()

	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().Bool("verbose", false, "")
		cmd.SetErr(&bytes.Buffer{})
		return cmd
	}

	globals = globalFlags{logFormat: logFormatConsole, configDir: t.TempDir()}
	s, err := newSession(newCmd())
	require.NoError(t, err)
	assert.Equal(t, "5.0", s.version().String())
	assert.Nil(t, s.pinned)
	s.close()

	writeFile(t, globals.configDir, config.ConfigFileName, "version: \"3.1\"\n")
	s, err = newSession(newCmd())
	require.NoError(t, err)
	assert.Equal(t, "3.1", s.version().String())
	assert.Nil(t, s.pinned)

	globals.ddmsVersion = "4.0.1"
	s, err = newSession(newCmd())
	require.NoError(t, err)
	assert.Equal(t, "4.0.1", s.version().String())
	require.NotNil(t, s.pinned)
	assert.Equal(t, "4.0.1", s.pinned.String())

	writeFile(t, globals.configDir, config.ConfigFileName, "version: \"1.0\"\n")
	_, err = newSession(newCmd())
	assert.True(t, errors.Is(err, ddms.ErrUnsupportedVersion))
}

func TestSession_ReaderHonoursSchemaOverride(t *testing.T) {
	t.Setenv(config.EnvValidateSchema, "")
	origGlobals := globals
	defer func() { globals = origGlobals }()
	globals = globalFlags{logFormat: logFormatConsole, configDir: t.TempDir()}

	cmd := &cobra.Command{}
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().Bool("schema", false, "")
	cmd.SetErr(&bytes.Buffer{})

	s, err := newSession(cmd)
	require.NoError(t, err)
	assert.Nil(t, boolFlagOverride(cmd, "schema"))

	require.NoError(t, cmd.Flags().Set("schema", "false"))
	override := boolFlagOverride(cmd, "schema")
	require.NotNil(t, override)
	assert.False(t, *override)

	r, err := s.reader(override)
	require.NoError(t, err)
	assert.NotNil(t, r)
}
