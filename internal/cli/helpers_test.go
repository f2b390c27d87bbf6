package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddms/internal/config"
	"github.com/vvka-141/ddms/pkg/ddms"
)

const ns5 = `xmlns:ddms="urn:us:mil:ces:metadata:ddms:5"`

const (
	keywordDoc    = `<ddms:keyword ` + ns5 + ` ddms:value="XML"/>`
	identifierDoc = `<ddms:identifier ` + ns5 + ` ddms:qualifier="URI" ddms:value="urn:buri:ddmsence:testIdentifier"/>`
	brokenDoc     = `<ddms:identifier ` + ns5 + ` ddms:value="x"/>`
	malformedDoc  = `<ddms:identifier`
)

// resetFlags returns every flag of the command tree to its default so that
// tests can run commands one after another.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the command line with args in a clean environment and
// returns what it wrote to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	for _, key := range []string{config.EnvVersion, config.EnvSchemaDir, config.EnvValidateSchema, config.EnvFormat} {
		t.Setenv(key, "")
	}
	t.Setenv("DDMS_NON_INTERACTIVE", "1")
	t.Setenv("NO_COLOR", "1")

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// recordXML returns a complete record for version, as scaffold writes it.
func recordXML(t *testing.T, version string) string {
	t.Helper()
	v, err := ddms.DefaultRegistry().Resolve(version)
	require.NoError(t, err)
	c, err := scaffoldBuilder(v, defaultScaffoldFlags(), uuid.New(), time.Now()).Commit(v)
	require.NoError(t, err)
	out, err := c.ToXML()
	require.NoError(t, err)
	return out
}
