package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `    _     _
 __| | __| |_ __ ___  ___
/ _' |/ _' | '_ ' _ \/ __|
\__,_|\__,_|_| |_| |_|___/`

var rootCmd = &cobra.Command{
	Use:   "ddms",
	Short: "Read, validate and render DDMS metadata records",
	Long: asciiLogo + `

ddms reads Department of Defense Discovery Metadata Specification records
in every supported version (2.0 through 5.0), validates them against the
rules of their version, and renders them as text, HTML meta tags, JSON or
canonical XML.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Unsupported or missing DDMS version
  12 - Document failed validation
  13 - Document is not well-formed XML
  14 - Document failed XML Schema validation`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose output for all commands")
	pf.StringVar(&globals.ddmsVersion, "ddms-version", "", "DDMS version or alias to use instead of detecting it")
	pf.StringVar(&globals.logFormat, "log-format", logFormatConsole, "Log output: console, json or none")
	pf.StringVar(&globals.configDir, "config-dir", ".", "Directory containing "+configFileHint+" and "+dotEnvFileName)

	_ = rootCmd.RegisterFlagCompletionFunc("ddms-version", completeVersions)
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", completeLogFormats)
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
