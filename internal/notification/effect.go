// Package notification delivers the side effects of interactions: match
// notices and the admin alert for users crossing the like threshold.
//
// Services never send anything themselves. They return effects, the
// interaction service publishes them to a Redis list after its transaction
// commits, and a Worker hands them to the Dispatcher. A daily Sweeper re-checks
// every user above the threshold through the same deduplicated path.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oggyb/swipe-match/internal/cache"
)

type EffectType string

const (
	EffectMatch         EffectType = "match"
	EffectLikeThreshold EffectType = "like_threshold"
)

// Effect is one pending notification.
type Effect struct {
	Type        EffectType `json:"type"`
	UserID      uint64     `json:"user_id"`
	OtherUserID uint64     `json:"other_user_id,omitempty"`
	LikeCount   int64      `json:"like_count,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// Match is emitted when userID's like completed a mutual pair with otherUserID.
func Match(userID, otherUserID uint64) Effect {
	return Effect{Type: EffectMatch, UserID: userID, OtherUserID: otherUserID, OccurredAt: time.Now().UTC()}
}

// LikeThreshold is emitted when userID's received likes reached the threshold.
func LikeThreshold(userID uint64, likeCount int64) Effect {
	return Effect{Type: EffectLikeThreshold, UserID: userID, LikeCount: likeCount, OccurredAt: time.Now().UTC()}
}

// Publisher accepts effects for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, effects ...Effect) error
}

// Queue is a Redis list of JSON-encoded effects (LPUSH in, BRPOP out).
type Queue struct {
	cache *cache.RedisCache
	key   string
}

var _ Publisher = (*Queue)(nil)

func NewQueue(rc *cache.RedisCache, key string) *Queue {
	return &Queue{cache: rc, key: key}
}

// Publish enqueues effects in order.
func (q *Queue) Publish(ctx context.Context, effects ...Effect) error {
	for _, e := range effects {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode effect: %w", err)
		}
		if err := q.cache.Push(ctx, q.key, payload); err != nil {
			return fmt.Errorf("push effect: %w", err)
		}
	}
	return nil
}

// Next blocks up to timeout for one effect. It returns cache.ErrQueueEmpty
// when nothing arrived.
func (q *Queue) Next(ctx context.Context, timeout time.Duration) (Effect, error) {
	payload, err := q.cache.Pop(ctx, q.key, timeout)
	if err != nil {
		return Effect{}, err
	}
	var e Effect
	if err := json.Unmarshal(payload, &e); err != nil {
		return Effect{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return e, nil
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.cache.QueueLen(ctx, q.key)
}

// ErrBadPayload marks a queue entry that is not a valid effect.
var ErrBadPayload = errors.New("malformed effect payload")
