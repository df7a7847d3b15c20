package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fjglira/storeflow/internal/suite"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run scenarios whenever their files change",
	Long: `Watches the input directories and runs the scenarios of every scenario
file that is written, until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyReportFlags(cmd, cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := suite.FromConfig(cfg, log)
		watcher, err := s.NewWatcher(cfg.Input.Directories, suite.DefaultDebounce)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()

		log.Infof("Watching %v for scenario changes", cfg.Input.Directories)
		filter := runFilter()
		for ev := range watcher.Events() {
			if ev.Err != nil {
				log.WithField("file", ev.Path).Errorf("Reload failed: %v", ev.Err)
				continue
			}
			scenarios := filter.Apply(ev.Scenarios)
			if len(scenarios) == 0 {
				log.WithField("file", ev.Path).Info("No scenarios selected")
				continue
			}
			log.WithField("file", ev.Path).Infof("Running %d scenario(s)", len(scenarios))
			if _, err := execute(ctx, cmd, cfg, s, scenarios); err != nil {
				log.Errorf("Run failed: %v", err)
			}
		}
		return nil
	},
}

func init() {
	addFilterFlags(watchCmd)
	watchCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write each report to this file instead of stdout")
	watchCmd.Flags().StringVar(&reportFormat, "format", "", "report format (text or json)")
	rootCmd.AddCommand(watchCmd)
}
