// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// maxConflictRetries bounds how often an optimistic write that lost against a
// concurrent write to the same record is attempted again.
const maxConflictRetries = 50

// retryOnConflict runs fn until it succeeds, fails with an error that is not a
// conflict, or the retry budget is spent. Attempts are spaced by a growing,
// jittered pause.
func retryOnConflict(ctx context.Context, backend string, isConflict func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if err == nil || !isConflict(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		pause := rand.N(time.Duration(attempt+1) * time.Millisecond)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
	return fmt.Errorf("%s store: write conflict retries exhausted: %w", backend, err)
}
