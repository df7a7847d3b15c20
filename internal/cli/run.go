package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/config"
	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/metrics"
	"github.com/fjglira/storeflow/internal/report"
	"github.com/fjglira/storeflow/internal/suite"
)

// ErrScenariosFailed is returned by run when at least one scenario failed.
var ErrScenariosFailed = errors.New("scenarios failed")

var (
	filterKinds   []string
	filterPattern string
	reportOutput  string
	reportFormat  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run scenarios and report their outcomes",
	Long: `Scans the input directories, expands every scenario and runs each one in
its own session. The exit status is non-zero when any scenario failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyReportFlags(cmd, cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := suite.FromConfig(cfg, log)
		scenarios, err := s.Load(cfg.Input.Directories)
		if err != nil {
			return err
		}
		scenarios = runFilter().Apply(scenarios)
		if len(scenarios) == 0 {
			log.Warn("No scenarios selected")
			return nil
		}

		rep, err := execute(ctx, cmd, cfg, s, scenarios)
		if err != nil {
			return err
		}
		if rep.Failed() > 0 {
			return fmt.Errorf("%d of %d: %w", rep.Failed(), len(rep.Outcomes), ErrScenariosFailed)
		}
		return nil
	},
}

func init() {
	addFilterFlags(runCmd)
	runCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to this file instead of stdout")
	runCmd.Flags().StringVar(&reportFormat, "format", "", "report format (text or json)")
	rootCmd.AddCommand(runCmd)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&filterKinds, "kind", nil, "only scenarios of these kinds")
	cmd.Flags().StringVar(&filterPattern, "filter", "", "only scenarios whose ID matches this glob or contains this text")
}

func runFilter() suite.Filter {
	return suite.Filter{Kinds: filterKinds, Pattern: filterPattern}
}

func applyReportFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Report.Output = reportOutput
	}
	if cmd.Flags().Changed("format") {
		cfg.Report.Format = reportFormat
	}
}

// execute runs scenarios with the configured driver, then writes the report
// and the metrics textfile.
func execute(ctx context.Context, cmd *cobra.Command, cfg *config.Config, s *suite.Suite, scenarios []domain.Scenario) (*domain.Report, error) {
	renderer, err := report.NewRenderer(cfg.Report.Format, cfg.Report.TemplateDir, cfg.Report.Template)
	if err != nil {
		return nil, err
	}
	collector, err := metrics.New()
	if err != nil {
		return nil, err
	}

	clk := clock.Real{}
	opener, err := suite.NewOpener(cfg, clk, log)
	if err != nil {
		return nil, err
	}
	r, err := suite.NewRunner(cfg, opener, clk, log, collector)
	if err != nil {
		return nil, err
	}

	rep := s.Run(ctx, r, scenarios, suite.RunOptions{
		Parallelism:     cfg.Run.Parallelism,
		ScenarioTimeout: config.Duration(cfg.Run.ScenarioTimeout),
		Driver:          cfg.Driver.Kind,
		Clock:           clk,
		Metrics:         collector,
	})

	if err := report.Write(renderer, rep, cfg.Report.Output, cmd.OutOrStdout()); err != nil {
		return rep, err
	}
	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return rep, err
		}
		log.Debugf("Metrics written to %s", cfg.Metrics.Textfile)
	}
	return rep, nil
}
