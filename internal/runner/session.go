package runner

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/storeflow/internal/driver"
)

// acquire opens a session. A connection reset is retried exactly once after
// the configured backoff; any other failure, or a second reset, is returned.
func (r *Runner) acquire(ctx context.Context, log logrus.FieldLogger) (driver.Session, error) {
	sess, err := r.opener.Open(ctx, r.session)
	if err == nil {
		return sess, nil
	}
	if !driver.IsKind(err, driver.KindConnectionReset) {
		return nil, fmt.Errorf("open session: %w", err)
	}

	log.WithError(err).WithField("backoff", r.backoff).Warn("connection reset while opening session, retrying once")
	r.metrics.SessionRetried()
	if err := r.clock.Sleep(ctx, r.backoff); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	sess, err = r.opener.Open(ctx, r.session)
	if err != nil {
		return nil, fmt.Errorf("open session after retry: %w", err)
	}
	return sess, nil
}

// release closes the session with a context that outlives a cancelled run.
func release(ctx context.Context, sess driver.Session, log logrus.FieldLogger) {
	if err := sess.Close(context.WithoutCancel(ctx)); err != nil {
		log.WithError(err).Warn("failed to close session")
		return
	}
	log.Debug("session closed")
}
