package suite

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/storeflow/internal/browser"
	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/config"
	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/metrics"
	"github.com/fjglira/storeflow/internal/runner"
	"github.com/fjglira/storeflow/internal/storefront"
)

// NewOpener returns the driver selected by cfg.Driver.Kind.
func NewOpener(cfg *config.Config, clk clock.Clock, log logrus.FieldLogger) (driver.Opener, error) {
	switch cfg.Driver.Kind {
	case config.DriverSimulated:
		sim := cfg.Driver.Simulator
		return storefront.New(storefront.Options{
			Clock:            clk,
			Latency:          config.Duration(sim.Latency),
			ConnectionResets: sim.ConnectionResets,
			IgnoredClicks:    sim.IgnoredClicks,
			StaleEvals:       sim.StaleEvals,
		}), nil
	case config.DriverChrome:
		return browser.NewOpener(log), nil
	default:
		return nil, fmt.Errorf("unknown driver kind %q", cfg.Driver.Kind)
	}
}

// NewRunner builds a scenario runner from cfg.
func NewRunner(cfg *config.Config, opener driver.Opener, clk clock.Clock, log logrus.FieldLogger, m *metrics.Collector) (*runner.Runner, error) {
	policies, err := cfg.FlowPolicies()
	if err != nil {
		return nil, err
	}
	return runner.New(opener, runner.Options{
		Session:  cfg.DriverSession(),
		Policies: &policies,
		Backoff:  config.Duration(cfg.Session.OpenRetryBackoff),
		Clock:    clk,
		Logger:   log,
		Metrics:  m,
	}), nil
}
