package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oggyb/swipe-match/internal/cache"
	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/metrics"
	"github.com/oggyb/swipe-match/internal/repository"
)

// Users is the slice of the user store the notification pipeline reads.
type Users interface {
	FindByID(ctx context.Context, id uint64) (*db.User, error)
	WithLikesAtLeast(ctx context.Context, threshold int64) ([]repository.RankedUser, error)
}

// LikeCounter re-counts received likes before an alert goes out.
type LikeCounter interface {
	CountLikesReceived(ctx context.Context, userID uint64) (int64, error)
}

// Dispatcher turns effects into notifier calls.
//
// Threshold alerts are deduplicated per user with a Redis marker
// (like_notification_sent:{id}) that lives for the dedup window. The marker
// is taken before delivery and released if delivery fails, so a failed
// alert is retried by the next trigger or sweep.
type Dispatcher struct {
	users     Users
	likes     LikeCounter
	markers   *cache.RedisCache
	notifier  Notifier
	threshold int64
	window    time.Duration
	log       *slog.Logger
}

func NewDispatcher(
	users Users,
	likes LikeCounter,
	markers *cache.RedisCache,
	notifier Notifier,
	threshold int64,
	window time.Duration,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:     users,
		likes:     likes,
		markers:   markers,
		notifier:  notifier,
		threshold: threshold,
		window:    window,
		log:       log,
	}
}

// Threshold is the like count that triggers the admin alert.
func (d *Dispatcher) Threshold() int64 { return d.threshold }

// Dispatch delivers one effect.
func (d *Dispatcher) Dispatch(ctx context.Context, e Effect) error {
	switch e.Type {
	case EffectMatch:
		return d.dispatchMatch(ctx, e)
	case EffectLikeThreshold:
		_, err := d.CheckThreshold(ctx, e.UserID)
		return err
	default:
		return fmt.Errorf("unknown effect type %q", e.Type)
	}
}

func (d *Dispatcher) dispatchMatch(ctx context.Context, e Effect) error {
	a, err := d.users.FindByID(ctx, e.UserID)
	if svcErr.Is(err, svcErr.ErrNotFound) {
		d.log.Debug("match user gone, dropping", "user_id", e.UserID)
		return nil
	}
	if err != nil {
		return err
	}
	b, err := d.users.FindByID(ctx, e.OtherUserID)
	if svcErr.Is(err, svcErr.ErrNotFound) {
		d.log.Debug("match user gone, dropping", "user_id", e.OtherUserID)
		return nil
	}
	if err != nil {
		return err
	}

	if err := d.notifier.NotifyMatch(ctx, a, b); err != nil {
		metrics.RecordEffect(string(EffectMatch), "failed")
		return fmt.Errorf("notify match: %w", err)
	}
	metrics.RecordEffect(string(EffectMatch), "delivered")
	return nil
}

// CheckThreshold re-counts userID's received likes and alerts the admin when
// the count is still at or above the threshold. It reports whether an alert
// was sent.
func (d *Dispatcher) CheckThreshold(ctx context.Context, userID uint64) (bool, error) {
	count, err := d.likes.CountLikesReceived(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("count likes: %w", err)
	}
	if count < d.threshold {
		d.log.Debug("like count fell below threshold", "user_id", userID, "like_count", count)
		return false, nil
	}

	user, err := d.users.FindByID(ctx, userID)
	if svcErr.Is(err, svcErr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return d.alert(ctx, user, count)
}

// alert sends the threshold mail once per dedup window.
func (d *Dispatcher) alert(ctx context.Context, user *db.User, count int64) (bool, error) {
	key := d.markers.KeyForLikeNotification(user.ID)
	acquired, err := d.markers.AcquireMarker(ctx, key, d.window)
	if err != nil {
		return false, fmt.Errorf("acquire marker: %w", err)
	}
	if !acquired {
		metrics.RecordEffect(string(EffectLikeThreshold), "deduplicated")
		d.log.Debug("threshold alert already sent in window", "user_id", user.ID)
		return false, nil
	}

	if err := d.notifier.NotifyLikeThreshold(ctx, user, count, d.threshold); err != nil {
		if relErr := d.markers.ReleaseMarker(ctx, key); relErr != nil {
			d.log.Warn("failed to release notification marker", "user_id", user.ID, "err", relErr)
		}
		metrics.RecordEffect(string(EffectLikeThreshold), "failed")
		return false, fmt.Errorf("notify like threshold: %w", err)
	}

	metrics.RecordEffect(string(EffectLikeThreshold), "delivered")
	d.log.Info("threshold alert sent", "user_id", user.ID, "like_count", count)
	return true, nil
}
