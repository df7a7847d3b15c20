package poll

import (
	"fmt"
	"time"

	"github.com/fjglira/storeflow/internal/domain"
)

// Limits on widening. Rounds stop doubling once they reach MaxRoundTimeout
// and a policy may ask for at most MaxAttemptsLimit attempts.
const (
	MaxRoundTimeout  = 10 * time.Minute
	MaxAttemptsLimit = 10
)

// Policy bounds a wait or a retry. Timeout bounds one polling round and
// MaxAttempts bounds the number of action+round repetitions.
type Policy struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxAttempts int
}

// Validate rejects policies that would busy-spin or never poll.
func (p Policy) Validate() error {
	if p.Interval <= 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("poll interval must be > 0 (got %s)", p.Interval), nil)
	}
	if p.Timeout <= p.Interval {
		return domain.NewError("config", "", 0,
			fmt.Sprintf("poll timeout %s must be greater than interval %s", p.Timeout, p.Interval), nil)
	}
	if p.MaxAttempts < 1 || p.MaxAttempts > MaxAttemptsLimit {
		return domain.NewError("config", "", 0,
			fmt.Sprintf("max attempts must be between 1 and %d (got %d)", MaxAttemptsLimit, p.MaxAttempts), nil)
	}
	return nil
}

// ForRound returns the policy for the given 1-based round. The first round
// uses the nominal timeout, each retry round doubles it up to
// MaxRoundTimeout. A nominal timeout above the ceiling is never shortened.
func (p Policy) ForRound(round int) Policy {
	widened := p
	for i := 1; i < round && widened.Timeout < MaxRoundTimeout; i++ {
		widened.Timeout = min(widened.Timeout*2, MaxRoundTimeout)
	}
	return widened
}

// Once returns a copy of p limited to a single attempt.
func (p Policy) Once() Policy {
	p.MaxAttempts = 1
	return p
}

func (p Policy) String() string {
	return fmt.Sprintf("every %s for %s, %d attempt(s)", p.Interval, p.Timeout, p.MaxAttempts)
}
