package probe_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/driver"
	"github.com/fjglira/storeflow/internal/poll"
	"github.com/fjglira/storeflow/internal/probe"
)

var _ = Describe("Probe", func() {
	var rec *probe.Recorder

	BeforeEach(func() {
		rec = probe.NewRecorder(nil)
	})

	It("should return the value and record a hit", func() {
		v, ok := probe.Do(rec, "badge", func() (string, error) { return "1", nil })
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("1"))
		Expect(rec.Results()).To(HaveLen(1))
		Expect(rec.Results()[0].Hit).To(BeTrue())
		Expect(rec.Results()[0].Value).To(Equal("1"))
	})

	It("should suppress driver errors and keep their category", func() {
		v, ok := probe.Do(rec, "badge", func() (string, error) {
			return "", driver.Errorf(driver.KindNoSuchElement, "text", driver.CSS("Badge", ".shopping_cart_badge"), "absent")
		})
		Expect(ok).To(BeFalse())
		Expect(v).To(BeEmpty())
		misses := rec.Misses()
		Expect(misses).To(HaveLen(1))
		Expect(misses[0].Category).To(Equal("driver/no-such-element"))
		Expect(misses[0].Message).To(ContainSubstring("absent"))
	})

	It("should suppress assertion failures", func() {
		_, ok := probe.Do(rec, "inventory", func() (bool, error) {
			return false, domain.Assertf("inventory", "container visible", "not shown")
		})
		Expect(ok).To(BeFalse())
		Expect(rec.Misses()[0].Category).To(Equal("assertion"))
	})

	It("should recover panics", func() {
		v, ok := probe.Do(rec, "explode", func() (int, error) { panic("boom") })
		Expect(ok).To(BeFalse())
		Expect(v).To(BeZero())
		Expect(rec.Misses()[0].Category).To(Equal("panic"))
	})

	It("should keep results in order", func() {
		probe.Do(rec, "first", func() (int, error) { return 1, nil })
		probe.Do(rec, "second", func() (int, error) { return 0, errors.New("nope") })
		rec.Note("third", true, "ok")
		names := []string{}
		for _, d := range rec.Results() {
			names = append(names, d.Probe)
		}
		Expect(names).To(Equal([]string{"first", "second", "third"}))
	})

	It("should read failing conditions as false", func() {
		cond := func(context.Context) (bool, error) { return true, fmt.Errorf("wrapped: %w", context.DeadlineExceeded) }
		Expect(probe.Check(context.Background(), rec, "cond", cond)).To(BeFalse())
		Expect(rec.Misses()[0].Category).To(Equal("timeout"))
	})

	DescribeTable("Category",
		func(err error, want string) {
			Expect(probe.Category(err)).To(Equal(want))
		},
		Entry("nil", nil, ""),
		Entry("plain", errors.New("x"), "error"),
		Entry("canceled", context.Canceled, "canceled"),
		Entry("exhausted", &poll.ExhaustedError{Kind: "driver/closed"}, "poll-exhausted"),
		Entry("transition", &domain.TransitionError{Op: "finish", From: "cart"}, "transition"),
	)
})
