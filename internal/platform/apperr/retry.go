package apperr

import (
	"context"
	"errors"
	"time"
)

// Store faults are the one transient class in the taxonomy, so reads get a
// fixed number of attempts before the fault surfaces. Writes never come
// through here; retrying an append could duplicate history.
const (
	readAttempts   = 3
	readRetryDelay = 25 * time.Millisecond
)

// RetryRead runs a read against the store, retrying on ErrStoreFault up to
// a fixed attempt count with a short growing delay. Any other failure, and
// the last fault once attempts are spent, return unchanged. The context
// cancels the wait between attempts.
func RetryRead(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrStoreFault) || attempt == readAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * readRetryDelay):
		}
	}
}
