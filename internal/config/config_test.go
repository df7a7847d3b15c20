package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storeflow/internal/config"
	"github.com/fjglira/storeflow/internal/flow"
)

var _ = Describe("Config", func() {
	Describe("Load", func() {
		It("should load minimal config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "minimal.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Directories).To(ConsistOf("scenarios"))
			Expect(cfg.Driver.Kind).To(Equal("simulated"))
			Expect(cfg.Markdown.Tags).To(ContainElement("storeflow"))
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should load full config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Driver.Kind).To(Equal("chrome"))
			Expect(cfg.Driver.Simulator.IgnoredClicks).To(HaveKeyWithValue("#add-to-cart-sauce-labs-backpack", 1))
			Expect(cfg.Input.Directories).To(HaveLen(3))
			Expect(cfg.Input.Exclude).To(ContainElement("drafts/**"))
			Expect(cfg.Markdown.Tags).To(ContainElements("storeflow", "storeflow-scenario"))
			Expect(cfg.Run.Parallelism).To(Equal(8))
			Expect(cfg.Report.Format).To(Equal("json"))
			Expect(cfg.Metrics.Textfile).To(Equal("reports/storeflow.prom"))
			Expect(*cfg.Session.Headless).To(BeFalse())
		})

		It("should keep defaults for policies not in the file", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Policies.AddToCart.MaxAttempts).To(Equal(3))
			Expect(cfg.Policies.RemoveFromCart.Timeout).To(Equal("3s"))
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load("nonexistent.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid YAML", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "invalid_storeflow.yaml")
			err := os.WriteFile(tmpFile, []byte("{{invalid yaml}}"), 0644)
			Expect(err).ToNot(HaveOccurred())

			_, loadErr := config.Load(tmpFile)
			Expect(loadErr).To(HaveOccurred())
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Include).To(ContainElements("*.yaml", "*.md"))
			Expect(*cfg.Input.Recursive).To(BeTrue())
			Expect(cfg.Session.OpenRetryBackoff).To(Equal("1200ms"))
			Expect(cfg.Run.Parallelism).To(Equal(4))
			Expect(cfg.Logging.Level).To(Equal("info"))
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should convert to the built-in flow policies", func() {
			policies, err := config.DefaultConfig().FlowPolicies()
			Expect(err).ToNot(HaveOccurred())
			Expect(policies).To(Equal(flow.DefaultPolicies()))
		})
	})

	Describe("DriverSession", func() {
		It("should map the session section", func() {
			cfg := config.DefaultConfig()
			cfg.Session.RemoteURL = "ws://chrome:9222"
			s := cfg.DriverSession()
			Expect(s.RemoteURL).To(Equal("ws://chrome:9222"))
			Expect(s.Headless).To(BeTrue())
			Expect(s.ActionTimeout).To(Equal(10 * time.Second))
		})
	})

	Describe("Validate", func() {
		It("should pass for valid config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should collect every problem into one error", func() {
			cfg := config.DefaultConfig()
			cfg.Input.Directories = nil
			cfg.Run.Parallelism = 0
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("input.directories"))
			Expect(err.Error()).To(ContainSubstring("run.parallelism"))
		})

		DescribeTable("invalid values",
			func(mutate func(*config.Config), field string) {
				cfg := config.DefaultConfig()
				mutate(cfg)
				err := config.Validate(cfg)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(field))
			},
			Entry("unknown driver", func(c *config.Config) { c.Driver.Kind = "selenium" }, "driver.kind"),
			Entry("negative resets", func(c *config.Config) { c.Driver.Simulator.ConnectionResets = -1 }, "connection_resets"),
			Entry("bad backoff", func(c *config.Config) { c.Session.OpenRetryBackoff = "soon" }, "session.open_retry_backoff"),
			Entry("zero action timeout", func(c *config.Config) { c.Session.ActionTimeout = "0s" }, "session.action_timeout"),
			Entry("timeout below interval", func(c *config.Config) { c.Policies.Badge.Timeout = "50ms" }, "policies.badge"),
			Entry("zero attempts", func(c *config.Config) { c.Policies.Checkout.MaxAttempts = 0 }, "policies.checkout"),
			Entry("no markdown tags", func(c *config.Config) { c.Markdown.Tags = nil }, "markdown.tags"),
			Entry("report format", func(c *config.Config) { c.Report.Format = "xml" }, "report.format"),
			Entry("log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"),
			Entry("log format", func(c *config.Config) { c.Logging.Format = "logfmt" }, "logging.format"),
			Entry("negative scenario timeout", func(c *config.Config) { c.Run.ScenarioTimeout = "-1s" }, "run.scenario_timeout"),
			Entry("too many attempts", func(c *config.Config) { c.Policies.AddToCart.MaxAttempts = 11 }, "policies.add_to_cart"),
		)

		It("should accept a zero scenario timeout", func() {
			cfg := config.DefaultConfig()
			cfg.Run.ScenarioTimeout = "0"
			Expect(config.Validate(cfg)).To(Succeed())
			Expect(config.Duration(cfg.Run.ScenarioTimeout)).To(BeZero())
		})

		It("should accept an empty logging level", func() {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = ""
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should accept a simulator without latency", func() {
			cfg := config.DefaultConfig()
			cfg.Driver.Simulator.Latency = "0s"
			Expect(config.Validate(cfg)).To(Succeed())
		})
	})
})
