package backoff

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

var MaxRetries uint64 = 5

var InitialInterval = 500 * time.Millisecond

// RetryGeneral retries op with an exponential backoff until it succeeds,
// MaxRetries is reached or ctx is done. Wrap an error with
// backoff.Permanent to stop retrying.
func RetryGeneral(ctx context.Context, op backoff.Operation) (err error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = InitialInterval

	err = backoff.RetryNotify(op, backoff.WithContext(
		backoff.WithMaxRetries(bo, MaxRetries),
		ctx), func(err error, d time.Duration) {
		log.WithError(err).Warnf("retrying in %s", d)
	})
	return err
}
