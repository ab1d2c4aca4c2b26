package session

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Dispatcher runs handlers asynchronously and tracks them so shutdown can
// wait for in-flight replies. A panicking handler is logged and contained.
type Dispatcher struct {
	handler HandlerFunc
	log     *slog.Logger
	group   errgroup.Group
}

func NewDispatcher(handler HandlerFunc, log *slog.Logger) *Dispatcher {
	return &Dispatcher{handler: handler, log: log}
}

// Dispatch hands msg to the handler on a new goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	d.group.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				d.log.ErrorContext(ctx, "Message handler panicked", "message_id", msg.ID, "from", msg.From, "panic", r)
			}
		}()
		d.handler(ctx, msg)
		return nil
	})
}

// Wait blocks until every dispatched handler has returned.
func (d *Dispatcher) Wait() {
	_ = d.group.Wait()
}
