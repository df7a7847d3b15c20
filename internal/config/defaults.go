package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	headless := true
	policy := func(timeout string, attempts int) PolicyConfig {
		return PolicyConfig{Interval: "100ms", Timeout: timeout, MaxAttempts: attempts}
	}
	return &Config{
		Driver: DriverConfig{
			Kind: "simulated",
			Simulator: SimulatorConfig{
				Latency: "300ms",
			},
		},
		Session: SessionConfig{
			BaseURL:          "https://www.saucedemo.com/",
			Headless:         &headless,
			WindowWidth:      1920,
			WindowHeight:     1080,
			ActionTimeout:    "10s",
			OpenRetryBackoff: "1200ms",
		},
		Policies: PoliciesConfig{
			Ready:          policy("3s", 1),
			Login:          policy("3s", 1),
			Inventory:      policy("2s", 1),
			AddToCart:      policy("2500ms", 2),
			RemoveFromCart: policy("3s", 2),
			Badge:          policy("1s", 1),
			Navigation:     policy("4s", 1),
			CartItems:      policy("3s", 1),
			Checkout:       policy("3s", 2),
		},
		Input: InputConfig{
			Directories: []string{"scenarios"},
			Include:     []string{"*.yaml", "*.yml", "*.md", "*.adoc"},
			Exclude:     []string{"vendor/**", "node_modules/**"},
			Recursive:   &recursive,
		},
		Markdown: MarkdownConfig{
			Tags: []string{"storeflow"},
		},
		Run: RunConfig{
			Parallelism:     4,
			ScenarioTimeout: "2m",
		},
		Report: ReportConfig{
			Format:   "text",
			Template: "summary",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
