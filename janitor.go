package ssso

import (
	"context"
	"time"

	"github.com/delbertbeta/s-sso/domain"
	"github.com/delbertbeta/s-sso/log"
)

// Janitor purges expired authorization codes and access tokens. Expired rows
// are already rejected on read; purging only keeps the tables small.
type Janitor struct {
	store    domain.Store
	interval time.Duration
	logger   log.Logger
}

func NewJanitor(store domain.Store, interval time.Duration, logger log.Logger) *Janitor {
	return &Janitor{store: store, interval: interval, logger: logger}
}

// Run purges once per interval until ctx is cancelled. A non-positive
// interval disables the janitor.
func (j *Janitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Purge(ctx)
		}
	}
}

// Purge runs a single cleanup pass and returns the number of removed rows.
func (j *Janitor) Purge(ctx context.Context) int64 {
	codes, err := j.store.DeleteExpiredAuthorizationCodes(ctx)
	if err != nil {
		j.logger.Error(ctx, "failed to purge expired authorization codes", err)
	}
	tokens, err := j.store.DeleteExpiredTokens(ctx)
	if err != nil {
		j.logger.Error(ctx, "failed to purge expired tokens", err)
	}

	if codes+tokens > 0 {
		j.logger.Debug(ctx, "purged expired grants", log.Fields{"codes": codes, "tokens": tokens})
	}
	return codes + tokens
}
