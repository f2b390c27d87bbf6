package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ddms/pkg/ddms"
)

var logFormats = []string{logFormatConsole, logFormatJSON, logFormatNone}

// completeVersions offers every canonical version and alias of the built-in
// registry.
func completeVersions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, v := range ddms.DefaultRegistry().Versions() {
		names = append(names, v.String())
		names = append(names, v.Aliases()...)
	}
	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix(ddms.OutputFormatNames(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeLogFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix(logFormats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeTypeNames offers the element names accepted by --type.
func completeTypeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, t := range ddms.Types() {
		names = append(names, t.Name)
	}
	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeDocuments lets the shell complete XML files and directories.
func completeDocuments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{strings.TrimPrefix(ddms.DocumentExtension, ".")}, cobra.ShellCompDirectiveFilterFileExt
}

func filterPrefix(candidates []string, prefix string) []string {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}
