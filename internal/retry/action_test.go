package retry_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/poll"
	"github.com/fjglira/storeflow/internal/retry"
)

var _ = Describe("Runner", func() {
	var (
		clk    *clock.Manual
		runner *retry.Runner
		policy poll.Policy
		ctx    context.Context

		actions int
		flipped bool
	)

	BeforeEach(func() {
		clk = clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		runner = retry.NewRunner(poll.New(clk), nil)
		policy = poll.Policy{Interval: 100 * time.Millisecond, Timeout: time.Second, MaxAttempts: 2}
		ctx = context.Background()
		actions = 0
		flipped = false
	})

	until := func(context.Context) (bool, error) { return flipped, nil }

	It("should succeed in one attempt when the post-condition follows the action", func() {
		act := func(context.Context) error { actions++; flipped = true; return nil }
		out, err := runner.Run(ctx, act, until, policy)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Succeeded).To(BeTrue())
		Expect(out.AttemptsUsed).To(Equal(1))
		Expect(actions).To(Equal(1))
	})

	It("should re-run the action once and succeed on the second round", func() {
		act := func(context.Context) error {
			actions++
			if actions == 2 {
				flipped = true
			}
			return nil
		}
		out, err := runner.Run(ctx, act, until, policy)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Succeeded).To(BeTrue())
		Expect(out.AttemptsUsed).To(Equal(2))
		Expect(actions).To(Equal(2))
	})

	It("should widen the timeout for the retry round", func() {
		act := func(context.Context) error { actions++; return nil }
		out, err := runner.Run(ctx, act, until, policy)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Succeeded).To(BeFalse())
		Expect(out.AttemptsUsed).To(Equal(2))
		// nominal round 1s, widened round 2s
		Expect(out.Elapsed).To(Equal(3 * time.Second))
	})

	It("should report failure without an error after max attempts", func() {
		policy.MaxAttempts = 3
		act := func(context.Context) error { actions++; return nil }
		out, err := runner.Run(ctx, act, until, policy)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Succeeded).To(BeFalse())
		Expect(out.AttemptsUsed).To(Equal(3))
		Expect(actions).To(Equal(3))
	})

	It("should return an outcome together with the action error", func() {
		boom := driver.Errorf(driver.KindNoSuchElement, "click", driver.ID("Add", "add"), "not found")
		act := func(context.Context) error { return boom }
		out, err := runner.Run(ctx, act, until, policy)
		Expect(errors.Is(err, boom)).To(BeTrue())
		Expect(out.Succeeded).To(BeFalse())
		Expect(out.AttemptsUsed).To(Equal(1))
	})

	It("should surface poll exhaustion", func() {
		act := func(context.Context) error { return nil }
		broken := func(context.Context) (bool, error) {
			return false, driver.Errorf(driver.KindClosed, "eval", driver.ElementRef{}, "session gone")
		}
		out, err := runner.Run(ctx, act, broken, policy)
		var exhausted *poll.ExhaustedError
		Expect(errors.As(err, &exhausted)).To(BeTrue())
		Expect(out.AttemptsUsed).To(Equal(1))
	})

	It("should skip the retry action when the guard does not hold", func() {
		act := func(context.Context) error { actions++; return nil }
		guard := func(context.Context) (bool, error) { return false, nil }
		out, err := runner.Run(ctx, act, until, policy, retry.RetryWhen(guard), retry.Named("remove"))
		Expect(err).ToNot(HaveOccurred())
		Expect(out.AttemptsUsed).To(Equal(2))
		Expect(actions).To(Equal(1))
	})

	It("should wait without acting", func() {
		clk.Advance(0)
		out, err := runner.Wait(ctx, func(context.Context) (bool, error) { return true, nil }, policy)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Succeeded).To(BeTrue())
		Expect(out.Elapsed).To(BeZero())
	})

	It("should reject invalid policies", func() {
		_, err := runner.Run(ctx, nil, until, poll.Policy{Interval: time.Second, Timeout: time.Second, MaxAttempts: 1})
		Expect(err).To(HaveOccurred())
	})
})
