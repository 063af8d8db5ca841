// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type BacklogSource interface {
	Backlog(ctx context.Context) ([]store.BacklogCount, error)
}

type BacklogSink interface {
	SetBacklog(counts []store.BacklogCount)
}

// BacklogRefresher copies review backlog counts into the metrics gauges.
type BacklogRefresher struct {
	source  BacklogSource
	sink    BacklogSink
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewBacklogRefresher(source BacklogSource, sink BacklogSink, timeout time.Duration, log logrus.FieldLogger) *BacklogRefresher {
	return &BacklogRefresher{source: source, sink: sink, timeout: timeout, log: log}
}

// Refresh reads the backlog once. A non-positive timeout means no deadline.
func (b *BacklogRefresher) Refresh(ctx context.Context) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	counts, err := b.source.Backlog(ctx)
	if err != nil {
		return fmt.Errorf("refresh backlog: %w", err)
	}
	b.sink.SetBacklog(counts)
	return nil
}

// Schedule registers the refresher on c. The first refresh runs immediately.
func (b *BacklogRefresher) Schedule(c *cron.Cron, spec string) error {
	run := func() {
		if err := b.Refresh(context.Background()); err != nil {
			b.log.WithError(err).Warn("backlog refresh failed")
		}
	}
	if _, err := c.AddFunc(spec, run); err != nil {
		return fmt.Errorf("schedule backlog refresh %q: %w", spec, err)
	}
	go run()
	return nil
}
