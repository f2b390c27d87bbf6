package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ddms/internal/config"
	"github.com/vvka-141/ddms/pkg/ddms"
)

var configWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the ddms.yaml configuration",
	Long: `Print the effective configuration: ddms.yaml from --config-dir with the
DDMS_VERSION, DDMS_SCHEMA_DIR, DDMS_VALIDATE_SCHEMA and DDMS_FORMAT
environment overrides applied. A .env file in --config-dir is loaded
first; variables already set in the environment take precedence.

With --write, save the effective configuration as ddms.yaml in --config-dir
if none exists yet.

Examples:
  ddms config
  DDMS_VERSION=4.1 ddms config --write`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configWrite, "write", false, "Create ddms.yaml from the effective configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadProjectConfig(globals.configDir)
	if err != nil {
		return err
	}
	if globals.ddmsVersion != "" {
		cfg.Version = globals.ddmsVersion
	}
	if _, err := cfg.Registry(); err != nil {
		return err
	}

	if configWrite {
		_, err := config.Load(globals.configDir)
		if err == nil {
			return fmt.Errorf("%w: %s already exists", ddms.ErrUsage, filepath.Join(globals.configDir, config.ConfigFileName))
		}
		if !errors.Is(err, config.ErrConfigNotFound) {
			return err
		}
		if err := os.MkdirAll(globals.configDir, 0755); err != nil {
			return err
		}
		if err := config.Save(globals.configDir, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Configuration saved to %s\n", filepath.Join(globals.configDir, config.ConfigFileName))
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
