package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

const DefaultCleanupInterval = 5 * time.Minute

type ConnectionExpirer interface {
	ExpireConnections(ctx context.Context) int
}

type ConnectionCleaner struct {
	expirer  ConnectionExpirer
	interval time.Duration
}

func NewConnectionCleaner(expirer ConnectionExpirer, interval time.Duration) *ConnectionCleaner {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &ConnectionCleaner{expirer: expirer, interval: interval}
}

// Start blocks until 'ctx' is cancelled.
func (c *ConnectionCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Info("Connection cleaner cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping connection cleaner...")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *ConnectionCleaner) cleanup(ctx context.Context) {
	if n := c.expirer.ExpireConnections(ctx); n > 0 {
		log.Infof("Cleaner: terminated %d expired connections", n)
	}
}
