package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oggyb/swipe-match/internal/cache"
)

// Worker drains the effect queue into the dispatcher until its context ends.
type Worker struct {
	queue       *Queue
	dispatcher  *Dispatcher
	log         *slog.Logger
	pollTimeout time.Duration
}

func NewWorker(queue *Queue, dispatcher *Dispatcher, log *slog.Logger) *Worker {
	return &Worker{
		queue:       queue,
		dispatcher:  dispatcher,
		log:         log,
		pollTimeout: 2 * time.Second,
	}
}

// Run blocks until ctx is cancelled. Delivery failures are logged and the
// effect is dropped; the daily sweep covers missed threshold alerts.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("effect worker started")
	defer w.log.Info("effect worker stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		ok, err := w.ProcessOne(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			w.log.Error("effect processing failed", "err", err)
			if !ok {
				// queue itself is failing, back off
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(time.Second):
				}
			}
		}
	}
}

// ProcessOne pops and dispatches at most one effect. ok reports whether the
// queue answered (an effect or an empty poll), as opposed to a Redis failure.
func (w *Worker) ProcessOne(ctx context.Context) (ok bool, err error) {
	e, err := w.queue.Next(ctx, w.pollTimeout)
	switch {
	case errors.Is(err, cache.ErrQueueEmpty):
		return true, nil
	case errors.Is(err, ErrBadPayload):
		return true, err
	case err != nil:
		return false, err
	}

	if err := w.dispatcher.Dispatch(ctx, e); err != nil {
		w.log.Warn("effect delivery failed",
			"type", e.Type,
			"user_id", e.UserID,
			"err", err,
		)
		return true, err
	}
	return true, nil
}
