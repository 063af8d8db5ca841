// Package notify delivers committed review transitions to live clients and,
// for flags, to the reviewers' mailboxes.
package notify

import (
	"context"
	"errors"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/review"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/websocket"

	"github.com/sirupsen/logrus"
)

var ErrMailQueueFull = errors.New("mail queue full")

type Broadcaster interface {
	Broadcast(channel string, payload any) error
}

// Fanout implements review.Notifier. Websocket delivery happens inline;
// mail is queued and sent by Run.
type Fanout struct {
	hub    Broadcaster
	mailer *Mailer
	queue  chan review.Event
	log    logrus.FieldLogger
}

func NewFanout(hub Broadcaster, mailer *Mailer, log logrus.FieldLogger) *Fanout {
	return &Fanout{
		hub:    hub,
		mailer: mailer,
		queue:  make(chan review.Event, 64),
		log:    log,
	}
}

func (f *Fanout) Notify(_ context.Context, event review.Event) error {
	channel := websocket.ChannelDecisions
	if event.Action == review.ActionFlag {
		channel = websocket.ChannelFlags
	}
	if err := f.hub.Broadcast(channel, event); err != nil {
		return err
	}
	if event.Action != review.ActionFlag || !f.mailer.Enabled() {
		return nil
	}
	select {
	case f.queue <- event:
		return nil
	default:
		return ErrMailQueueFull
	}
}

// Run sends queued mail until ctx is done.
func (f *Fanout) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-f.queue:
			if err := f.mailer.SendFlag(event); err != nil {
				f.log.WithError(err).WithField("entity_id", event.EntityID).Warn("flag mail not sent")
			}
		}
	}
}
