package app

import (
	"github.com/oggyb/swipe-match/internal/notification"
	"github.com/oggyb/swipe-match/internal/repository"
)

// NewDispatcher wires the effect dispatcher over the app's stores and the
// configured threshold and dedup window.
func (a *AppContext) NewDispatcher(notifier notification.Notifier) *notification.Dispatcher {
	return notification.NewDispatcher(
		repository.NewUserRepository(a.DB),
		repository.NewInteractionRepository(a.DB, a.Config.DB.TxRetries),
		a.RedisCache,
		notifier,
		a.Config.Likes.Threshold,
		a.Config.Likes.DedupWindow,
		a.Logger,
	)
}

// NewSweeper builds the high-like-count sweep on top of d.
func (a *AppContext) NewSweeper(d *notification.Dispatcher) *notification.Sweeper {
	return notification.NewSweeper(repository.NewUserRepository(a.DB), d, a.Logger)
}

// EffectQueue is the Redis queue effects are published to and consumed from.
func (a *AppContext) EffectQueue() *notification.Queue {
	return notification.NewQueue(a.RedisCache, a.Config.Likes.QueueKey)
}
