package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/storeflow/internal/config"
)

// defaultConfigFile is read when --config is not given; a missing default
// file means built-in defaults.
const defaultConfigFile = "storeflow.yaml"

var (
	cfgFile    string
	verbose    bool
	driverKind string
	log        = logrus.New()
)

// rootCmd is the base command for storeflow.
var rootCmd = &cobra.Command{
	Use:   "storeflow",
	Short: "Drive storefront journeys and verify their outcomes",
	Long: `storeflow runs scenario journeys (login, cart, checkout, confirmation)
against a storefront, either a real Chrome session or the built-in simulator.

Scenarios live in YAML files or in storeflow-tagged blocks of Markdown and
AsciiDoc documents. Everything else is driven by storeflow.yaml.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&driverKind, "driver", "", "override driver.kind (simulated or chrome)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads and validates the configuration, applies flag overrides
// and configures logging from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if cmd.Flags().Changed("config") || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Debugf("No %s found, using defaults", defaultConfigFile)
		cfg = config.DefaultConfig()
	}

	if driverKind != "" {
		cfg.Driver.Kind = driverKind
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if err := configureLogger(log, cfg.Logging, verbose); err != nil {
		return nil, err
	}
	log.WithField("driver", cfg.Driver.Kind).Debug("Configuration loaded")
	return cfg, nil
}
