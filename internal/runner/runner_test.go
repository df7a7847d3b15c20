package runner_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/metrics"
	"github.com/fjglira/storeflow/internal/runner"
	"github.com/fjglira/storeflow/internal/storefront"
)

// explodingSession panics on every click.
type explodingSession struct {
	driver.Session
}

func (explodingSession) Click(context.Context, driver.ElementRef) error {
	panic("click exploded")
}

var _ = Describe("Runner", func() {
	var (
		ctx  context.Context
		clk  *clock.Manual
		opts storefront.Options
		srv  *storefront.Server
		col  *metrics.Collector
	)

	standard := domain.Params{
		Username:  "standard_user",
		Password:  "secret_sauce",
		FirstName: "Jane",
		LastName:  "Smith",
		Zip:       "54321",
	}

	BeforeEach(func() {
		ctx = context.Background()
		clk = clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		opts = storefront.Options{Latency: 300 * time.Millisecond}
		var err error
		col, err = metrics.New()
		Expect(err).ToNot(HaveOccurred())
	})

	newRunner := func() *runner.Runner {
		opts.Clock = clk
		srv = storefront.New(opts)
		return runner.New(srv, runner.Options{Clock: clk, Metrics: col})
	}

	diagnostic := func(out domain.Outcome, name string) (domain.Diagnostic, bool) {
		for _, d := range out.Diagnostics {
			if d.Probe == name {
				return d, true
			}
		}
		return domain.Diagnostic{}, false
	}

	It("should complete an end to end journey", func() {
		out := newRunner().Run(ctx, domain.Scenario{ID: "e2e#1", Kind: "end_to_end", Params: standard})

		Expect(out.Error).ToNot(HaveOccurred())
		Expect(out.Passed()).To(BeTrue())
		Expect(out.FinalPage).To(Equal("confirmation"))
		Expect(out.SessionID).ToNot(BeEmpty())

		d, ok := diagnostic(out, "confirmation.message")
		Expect(ok).To(BeTrue())
		Expect(d.Hit).To(BeTrue())
		Expect(d.Value).To(Equal(runner.ConfirmationPhrase))
		d, ok = diagnostic(out, "confirmation.displayed")
		Expect(ok).To(BeTrue())
		Expect(d.Hit).To(BeTrue())
		Expect(srv.Stats().Active()).To(Equal(0))
	})

	DescribeTable("confirmation text",
		func(text domain.Step, pass bool) {
			out := newRunner().Run(ctx, domain.Scenario{
				ID: "custom",
				Steps: []domain.Step{
					domain.S("login"),
					domain.S("add_to_cart"),
					domain.S("go_to_cart"),
					domain.S("checkout"),
					domain.S("fill_details"),
					domain.S("continue"),
					domain.S("finish"),
					text,
				},
				Params: standard,
			})
			if pass {
				Expect(out.Error).ToNot(HaveOccurred())
				Expect(out.FinalPage).To(Equal("confirmation"))
				return
			}
			var ae *domain.AssertionError
			Expect(errors.As(out.Error, &ae)).To(BeTrue())
			Expect(ae.Check).To(Equal("text"))
			Expect(out.ErrorKind).To(Equal("assertion"))
		},
		Entry("any description", domain.S("expect_text"), true),
		Entry("matching description", domain.SV("expect_text", "dispatched"), true),
		Entry("different description", domain.SV("expect_text", "delayed"), false),
	)

	It("should reject expect_text before the order is complete", func() {
		out := newRunner().Run(ctx, domain.Scenario{
			ID:     "custom",
			Steps:  []domain.Step{domain.S("login"), domain.S("expect_text")},
			Params: standard,
		})
		var te *domain.TransitionError
		Expect(errors.As(out.Error, &te)).To(BeTrue())
		Expect(te.Op).To(Equal("expect_text"))
	})

	It("should complete checkout through the overview", func() {
		out := newRunner().Run(ctx, domain.Scenario{ID: "checkout#1", Kind: "checkout", Params: standard})
		Expect(out.Error).ToNot(HaveOccurred())
		Expect(out.FinalPage).To(Equal("confirmation"))
	})

	DescribeTable("invalid logins",
		func(username, password, expected string) {
			out := newRunner().Run(ctx, domain.Scenario{
				ID:   "invalid",
				Kind: "invalid_login",
				Params: domain.Params{
					Username:      username,
					Password:      password,
					ExpectedError: expected,
				},
			})
			Expect(out.Error).ToNot(HaveOccurred())
			Expect(out.FinalPage).To(Equal("login"))
		},
		Entry("unknown user", "invalid_user", "wrong_password",
			"Epic sadface: Username and password do not match any user in this service"),
		Entry("locked out", "locked_out_user", "secret_sauce",
			"Epic sadface: Sorry, this user has been locked out."),
		Entry("no username", "", "secret_sauce", "Epic sadface: Username is required"),
		Entry("no password", "standard_user", "", "Epic sadface: Password is required"),
	)

	It("should fail when the login error differs from the expectation", func() {
		out := newRunner().Run(ctx, domain.Scenario{
			ID:     "invalid",
			Kind:   "invalid_login",
			Params: domain.Params{Username: "locked_out_user", Password: "wrong", ExpectedError: "Epic sadface: Sorry, this user has been locked out."},
		})
		var ae *domain.AssertionError
		Expect(errors.As(out.Error, &ae)).To(BeTrue())
		Expect(out.ErrorKind).To(Equal("assertion"))
	})

	It("should retry a single connection reset", func() {
		opts.ConnectionResets = 1
		r := newRunner()
		before := clk.Now()

		out := r.Run(ctx, domain.Scenario{ID: "valid", Kind: "valid_login", Params: standard})
		Expect(out.Error).ToNot(HaveOccurred())
		Expect(srv.OpenCalls()).To(Equal(2))
		Expect(clk.Now().Sub(before)).To(BeNumerically(">=", runner.DefaultOpenBackoff))
		expected := `
# HELP storeflow_session_open_retries_total Session opens retried after a connection reset
# TYPE storeflow_session_open_retries_total counter
storeflow_session_open_retries_total 1
`
		Expect(testutil.GatherAndCompare(col.Registry(), strings.NewReader(expected),
			"storeflow_session_open_retries_total")).To(Succeed())
	})

	It("should give up after a second connection reset", func() {
		opts.ConnectionResets = 2
		r := newRunner()

		out := r.Run(ctx, domain.Scenario{ID: "valid", Kind: "valid_login", Params: standard})
		Expect(driver.IsKind(out.Error, driver.KindConnectionReset)).To(BeTrue())
		Expect(out.ErrorKind).To(Equal("driver/connection-reset"))
		Expect(out.SessionID).To(BeEmpty())
		Expect(out.FinalPage).To(BeEmpty())
		Expect(srv.OpenCalls()).To(Equal(2))
		Expect(srv.Stats().Opened).To(Equal(0))
	})

	It("should not retry other open failures", func() {
		calls := 0
		opener := driver.OpenerFunc(func(context.Context, driver.SessionConfig) (driver.Session, error) {
			calls++
			return nil, driver.Errorf(driver.KindProtocol, "open", driver.ElementRef{}, "chrome not found")
		})
		out := runner.New(opener, runner.Options{Clock: clk}).Run(ctx, domain.Scenario{ID: "x", Kind: "valid_login"})
		Expect(out.ErrorKind).To(Equal("driver/protocol"))
		Expect(calls).To(Equal(1))
	})

	It("should keep diagnostics gathered before a hard failure", func() {
		opts.IgnoredClicks = map[string]int{"#add-to-cart-sauce-labs-backpack": 5}
		out := newRunner().Run(ctx, domain.Scenario{ID: "badge", Kind: "cart_badge", Params: standard})

		var ae *domain.AssertionError
		Expect(errors.As(out.Error, &ae)).To(BeTrue())
		Expect(out.ErrorText).To(ContainSubstring("step 4 (add_to_cart)"))
		Expect(out.FinalPage).To(Equal("inventory"))

		d, ok := diagnostic(out, "login.submit")
		Expect(ok).To(BeTrue())
		Expect(d.Hit).To(BeTrue())
		d, ok = diagnostic(out, "inventory.add")
		Expect(ok).To(BeTrue())
		Expect(d.Hit).To(BeFalse())
		Expect(srv.Stats().Active()).To(Equal(0))
	})

	It("should report an illegal transition", func() {
		out := newRunner().Run(ctx, domain.Scenario{
			ID:     "custom",
			Steps:  []domain.Step{domain.S("login"), domain.S("finish")},
			Params: standard,
		})
		var te *domain.TransitionError
		Expect(errors.As(out.Error, &te)).To(BeTrue())
		Expect(te.Op).To(Equal("finish"))
		Expect(te.From).To(Equal("inventory"))
		Expect(out.ErrorKind).To(Equal("transition"))
	})

	It("should run custom steps with explicit values", func() {
		out := newRunner().Run(ctx, domain.Scenario{
			ID: "custom",
			Steps: []domain.Step{
				domain.S("login"),
				domain.S("verify_inventory"),
				domain.SV("expect_badge", ""),
				domain.S("add_to_cart"),
				domain.S("go_to_cart"),
				domain.S("continue_shopping"),
				domain.SV("expect_badge", "1"),
			},
			Params: standard,
		})
		Expect(out.Error).ToNot(HaveOccurred())
		Expect(out.FinalPage).To(Equal("inventory"))
	})

	It("should reject unknown kinds without opening a session", func() {
		r := newRunner()
		out := r.Run(ctx, domain.Scenario{ID: "nope", Kind: "teleport"})
		Expect(out.Error).To(MatchError(ContainSubstring(`unknown kind "teleport"`)))
		Expect(srv.OpenCalls()).To(Equal(0))
	})

	It("should recover panics into the outcome and still close the session", func() {
		opts.Clock = clk
		srv = storefront.New(opts)
		opener := driver.OpenerFunc(func(ctx context.Context, cfg driver.SessionConfig) (driver.Session, error) {
			s, err := srv.Open(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return explodingSession{Session: s}, nil
		})

		out := runner.New(opener, runner.Options{Clock: clk}).Run(ctx, domain.Scenario{ID: "boom", Kind: "valid_login", Params: standard})
		Expect(out.Error).To(MatchError(ContainSubstring("click exploded")))
		Expect(out.ErrorKind).To(Equal("panic"))
		Expect(out.FinalPage).To(Equal("login"))
		Expect(srv.Stats().Active()).To(Equal(0))
	})

	It("should count outcomes", func() {
		r := newRunner()
		r.Run(ctx, domain.Scenario{ID: "a", Kind: "valid_login", Params: standard})
		r.Run(ctx, domain.Scenario{ID: "b", Kind: "valid_login", Params: domain.Params{Username: "locked_out_user", Password: "secret_sauce"}})

		n, err := testutil.GatherAndCount(col.Registry(), "storeflow_scenarios_total")
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(2))
	})
})

var _ = Describe("Catalog", func() {
	It("should list every predefined kind", func() {
		Expect(runner.Catalog{}.Kinds()).To(ConsistOf(
			"valid_login", "invalid_login", "add_to_cart", "remove_from_cart",
			"checkout", "end_to_end", "inventory_elements", "cart_badge",
		))
	})

	It("should only reference known operations", func() {
		c := runner.Catalog{}
		for _, kind := range c.Kinds() {
			steps, ok := c.Steps(kind)
			Expect(ok).To(BeTrue())
			for _, st := range steps {
				Expect(c.Known(st.Op)).To(BeTrue(), "%s uses %s", kind, st.Op)
			}
		}
		Expect(c.Known("teleport")).To(BeFalse())
	})

	It("should hand out copies", func() {
		c := runner.Catalog{}
		steps, _ := c.Steps("valid_login")
		steps[0] = domain.S("mutated")
		again, _ := c.Steps("valid_login")
		Expect(again[0].Op).To(Equal("login"))
	})
})
