package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/storeflow/internal/suite"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and every scenario file",
	Long: `Loads the configuration file and checks it for invalid values, then parses
and expands every scenario file without opening a session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if _, err := cfg.FlowPolicies(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		scenarios, err := suite.FromConfig(cfg, log).Load(cfg.Input.Directories)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration %q is valid, %d scenario(s) found.\n", cfgFile, len(scenarios))
		log.Debugf("Loaded config: %+v", cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
