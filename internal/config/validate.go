package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fjglira/storeflow/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Driver validation
	switch cfg.Driver.Kind {
	case DriverSimulated, DriverChrome:
	default:
		errs = append(errs, fmt.Sprintf("driver.kind must be one of: simulated, chrome (got %q)", cfg.Driver.Kind))
	}
	if cfg.Driver.Simulator.Latency != "" {
		errs = appendDuration(errs, "driver.simulator.latency", cfg.Driver.Simulator.Latency, true)
	}
	if cfg.Driver.Simulator.ConnectionResets < 0 {
		errs = append(errs, "driver.simulator.connection_resets must be >= 0")
	}

	// Session validation
	if cfg.Driver.Kind == DriverChrome && cfg.Session.BaseURL == "" {
		errs = append(errs, "session.base_url must not be empty for the chrome driver")
	}
	errs = appendDuration(errs, "session.action_timeout", cfg.Session.ActionTimeout, false)
	errs = appendDuration(errs, "session.open_retry_backoff", cfg.Session.OpenRetryBackoff, false)

	// Policies validation
	for name, pc := range cfg.Policies.named() {
		if _, err := pc.Policy(); err != nil {
			errs = append(errs, fmt.Sprintf("policies.%s: %v", name, err))
		}
	}

	// Input validation
	if len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.directories must not be empty")
	}
	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}
	if len(cfg.Markdown.Tags) == 0 {
		errs = append(errs, "markdown.tags must not be empty")
	}

	// Run validation
	if cfg.Run.Parallelism < 1 {
		errs = append(errs, fmt.Sprintf("run.parallelism must be >= 1 (got %d)", cfg.Run.Parallelism))
	}
	errs = appendDuration(errs, "run.scenario_timeout", cfg.Run.ScenarioTimeout, true)

	// Report validation
	if cfg.Report.Format != "text" && cfg.Report.Format != "json" {
		errs = append(errs, fmt.Sprintf("report.format must be one of: text, json (got %q)", cfg.Report.Format))
	}

	// Logging validation
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}
	if cfg.Logging.Format != "" && cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		errs = append(errs, fmt.Sprintf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}

// appendDuration records a problem when value is not a positive duration.
// Zero is accepted only when allowZero is set.
func appendDuration(errs []string, field, value string, allowZero bool) []string {
	d, err := time.ParseDuration(value)
	switch {
	case err != nil:
		return append(errs, fmt.Sprintf("%s is not a valid duration (got %q)", field, value))
	case d < 0, d == 0 && !allowZero:
		return append(errs, fmt.Sprintf("%s must be positive (got %s)", field, value))
	}
	return errs
}
