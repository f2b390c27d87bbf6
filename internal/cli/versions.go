package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vvka-141/ddms/pkg/ddms"
)

var versionsJSON bool

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the supported DDMS versions",
	Long: `List the supported DDMS versions with their aliases, namespaces and
schema locations. The version used for new records is marked with "*".

The table comes from ddms.yaml when it defines versions, and from the
built-in table otherwise.`,
	Args: cobra.NoArgs,
	RunE: runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	versionsCmd.Flags().BoolVar(&versionsJSON, "json", false, "Write the table as JSON")
}

type versionEntry struct {
	Version    string            `json:"version"`
	Aliases    []string          `json:"aliases,omitempty"`
	Namespaces map[string]string `json:"namespaces"`
	Schema     string            `json:"schema,omitempty"`
	Default    bool              `json:"default"`
}

func runVersions(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	current := s.version()
	var entries []versionEntry
	for _, v := range s.registry.Versions() {
		entries = append(entries, versionEntry{
			Version:    v.String(),
			Aliases:    v.Aliases(),
			Namespaces: v.Namespaces(),
			Schema:     v.Schema(ddms.VocabDDMS),
			Default:    v.Equal(current),
		})
	}

	out := cmd.OutOrStdout()
	if versionsJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode versions: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tVERSION\tALIASES\tNAMESPACE\tSCHEMA")
	for _, e := range entries {
		mark := ""
		if e.Default {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, e.Version, strings.Join(e.Aliases, ","), e.Namespaces[ddms.VocabDDMS], e.Schema)
	}
	return tw.Flush()
}
