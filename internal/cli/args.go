package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ddms/pkg/ddms"
)

// RequirePaths validates that at least one file or directory is given.
func RequirePaths(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`%w: missing required argument: <path>

Usage: %s

Example:
  %s ./records`, ddms.ErrUsage, cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}

// RequireDocument validates that exactly one document is given.
func RequireDocument(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`%w: missing required argument: <file>

Usage: %s

Example:
  %s record.xml --format json`, ddms.ErrUsage, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: accepts 1 arg(s), received %d", ddms.ErrUsage, len(args))
	}
	return nil
}
