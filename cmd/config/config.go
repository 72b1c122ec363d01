// Package config shows the effective configuration
package config

import (
	"fmt"
	"io"

	"fjacquet/mood-journal/cmd/root"
	appconfig "fjacquet/mood-journal/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
	Long: `Inspect the configuration after defaults, config file and environment
variables have been applied.`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long:  `Print the effective configuration as YAML. The API key is never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cmd.OutOrStdout(), root.AppConfig)
	},
}

func init() {
	Cmd.AddCommand(showCmd)
}

func writeConfig(w io.Writer, cfg *appconfig.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}
	if cfg.Remote.APIKey != "" {
		fmt.Fprintln(w, "# remote.api_key is set")
	}
	return nil
}
