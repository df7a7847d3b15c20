package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/storeflow/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Driver   DriverConfig   `yaml:"driver"`
	Session  SessionConfig  `yaml:"session"`
	Policies PoliciesConfig `yaml:"policies"`
	Input    InputConfig    `yaml:"input"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Run      RunConfig      `yaml:"run"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DriverConfig selects the driver implementation.
type DriverConfig struct {
	Kind      string          `yaml:"kind"` // "simulated" or "chrome"
	Simulator SimulatorConfig `yaml:"simulator"`
}

// SimulatorConfig tunes the in-memory storefront and its injected faults.
type SimulatorConfig struct {
	Latency          string         `yaml:"latency"`
	ConnectionResets int            `yaml:"connection_resets"`
	IgnoredClicks    map[string]int `yaml:"ignored_clicks"`
	StaleEvals       int            `yaml:"stale_evals"`
}

type SessionConfig struct {
	BaseURL          string `yaml:"base_url"`
	RemoteURL        string `yaml:"remote_url"`
	Headless         *bool  `yaml:"headless"` // pointer to distinguish unset from false
	WindowWidth      int    `yaml:"window_width"`
	WindowHeight     int    `yaml:"window_height"`
	ActionTimeout    string `yaml:"action_timeout"`
	OpenRetryBackoff string `yaml:"open_retry_backoff"`
}

// PolicyConfig is one retry policy with durations as strings.
type PolicyConfig struct {
	Interval    string `yaml:"interval"`
	Timeout     string `yaml:"timeout"`
	MaxAttempts int    `yaml:"max_attempts"`
}

type PoliciesConfig struct {
	Ready          PolicyConfig `yaml:"ready"`
	Login          PolicyConfig `yaml:"login"`
	Inventory      PolicyConfig `yaml:"inventory"`
	AddToCart      PolicyConfig `yaml:"add_to_cart"`
	RemoveFromCart PolicyConfig `yaml:"remove_from_cart"`
	Badge          PolicyConfig `yaml:"badge"`
	Navigation     PolicyConfig `yaml:"navigation"`
	CartItems      PolicyConfig `yaml:"cart_items"`
	Checkout       PolicyConfig `yaml:"checkout"`
}

type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"`
}

// MarkdownConfig lists the fence info strings that mark scenario blocks.
type MarkdownConfig struct {
	Tags []string `yaml:"tags"`
}

type RunConfig struct {
	Parallelism     int    `yaml:"parallelism"`
	ScenarioTimeout string `yaml:"scenario_timeout"`
}

type ReportConfig struct {
	Format      string `yaml:"format"` // "text" or "json"
	Output      string `yaml:"output"` // empty writes to stdout
	TemplateDir string `yaml:"template_dir"`
	Template    string `yaml:"template"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	File   string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}
