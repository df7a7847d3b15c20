package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/metrics"
)

var _ = Describe("Collector", func() {
	var c *metrics.Collector

	BeforeEach(func() {
		var err error
		c, err = metrics.New()
		Expect(err).ToNot(HaveOccurred())
	})

	It("should count outcomes by kind and result", func() {
		c.ObserveOutcome(domain.Outcome{Kind: "checkout", Duration: 2 * time.Second})
		c.ObserveOutcome(domain.Outcome{Kind: "checkout", Error: errors.New("boom")})
		c.ObserveOutcome(domain.Outcome{})

		expected := `
# HELP storeflow_scenarios_total Scenarios executed, by kind and result
# TYPE storeflow_scenarios_total counter
storeflow_scenarios_total{kind="checkout",result="failed"} 1
storeflow_scenarios_total{kind="checkout",result="passed"} 1
storeflow_scenarios_total{kind="custom",result="passed"} 1
`
		Expect(testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "storeflow_scenarios_total")).To(Succeed())
	})

	It("should count probe misses only", func() {
		c.ObserveOutcome(domain.Outcome{Kind: "cart_badge", Diagnostics: []domain.Diagnostic{
			{Probe: "inventory.badge_cleared", Hit: false},
			{Probe: "inventory.add", Hit: true},
			{Probe: "inventory.badge_cleared", Hit: false},
		}})
		n, err := testutil.GatherAndCount(c.Registry(), "storeflow_probe_misses_total")
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(1))
	})

	It("should track session retries and the last run", func() {
		c.SessionRetried()
		c.SessionRetried()
		c.ObserveReport(&domain.Report{Outcomes: []domain.Outcome{{Error: errors.New("x")}, {}}})

		expected := `
# HELP storeflow_session_open_retries_total Session opens retried after a connection reset
# TYPE storeflow_session_open_retries_total counter
storeflow_session_open_retries_total 2
# HELP storeflow_last_run_failed_scenarios Failed scenarios in the most recent run
# TYPE storeflow_last_run_failed_scenarios gauge
storeflow_last_run_failed_scenarios 1
`
		Expect(testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected),
			"storeflow_session_open_retries_total", "storeflow_last_run_failed_scenarios")).To(Succeed())
	})

	It("should write a textfile", func() {
		path := filepath.Join(GinkgoT().TempDir(), "storeflow.prom")
		c.SessionRetried()
		Expect(c.WriteTextfile(path)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("storeflow_session_open_retries_total 1"))
	})

	It("should be a no-op when nil", func() {
		var nilCollector *metrics.Collector
		Expect(func() {
			nilCollector.ObserveOutcome(domain.Outcome{})
			nilCollector.SessionRetried()
			nilCollector.ObserveReport(&domain.Report{})
		}).ToNot(Panic())
		Expect(nilCollector.WriteTextfile("unused")).To(Succeed())
	})
})
