package interaction

import (
	"context"
	"time"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/metrics"
	"github.com/oggyb/swipe-match/internal/notification"
	"github.com/oggyb/swipe-match/internal/repository"
	"github.com/oggyb/swipe-match/internal/utils/pagination"
)

// LikeResult is the outcome of a like plus the effects it produced.
type LikeResult struct {
	Matched bool
	Effects []notification.Effect
}

// Service implements likes and dislikes between users.
// Every method takes the acting user id explicitly.
type Service struct {
	appCtx       *app.AppContext
	users        repository.UserStore
	pictures     repository.PictureStore
	interactions repository.InteractionStore
	threshold    int64
}

// NewService creates the interaction service with repositories built from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		users:        repository.NewUserRepository(appCtx.DB),
		pictures:     repository.NewPictureRepository(appCtx.DB, appCtx.Config.DB.TxRetries),
		interactions: repository.NewInteractionRepository(appCtx.DB, appCtx.Config.DB.TxRetries),
		threshold:    appCtx.Config.Likes.Threshold,
	}
}

// Like moves (from, to) into LIKED.
//
// Behavior:
//   - ErrSelfInteraction when from == to, ErrInvalidUser when to does not exist.
//   - ErrAlreadyLiked when the like exists; a dislike of the pair is replaced.
//   - After commit, a reverse like means a match: Matched=true and a match effect.
//   - Otherwise, when to's received likes are >= threshold, a like_threshold
//     effect is emitted. This is level-triggered; the dispatcher deduplicates.
//   - Effects are published to the worker queue; a publish failure is logged,
//     not returned, since the like itself is committed.
//
// Example:
//
//	res, err := svc.Like(ctx, 1, 2)
func (s *Service) Like(ctx context.Context, fromUserID, toUserID uint64) (res LikeResult, err error) {
	defer func() { metrics.RecordInteraction("like", err) }()

	if err := s.checkTarget(ctx, fromUserID, toUserID); err != nil {
		return res, err
	}

	if err := s.interactions.Like(ctx, fromUserID, toUserID); err != nil {
		return res, err
	}
	s.invalidateCount(ctx, toUserID)

	// the own edge is committed; now look for the reverse one
	matched, err := s.interactions.HasLiked(ctx, toUserID, fromUserID)
	if err != nil {
		return res, err
	}

	if matched {
		metrics.Matches.Inc()
		res.Matched = true
		res.Effects = append(res.Effects, notification.Match(fromUserID, toUserID))
	} else {
		count, err := s.interactions.CountLikesReceived(ctx, toUserID)
		if err != nil {
			return res, err
		}
		if count >= s.threshold {
			res.Effects = append(res.Effects, notification.LikeThreshold(toUserID, count))
		}
	}

	s.publish(ctx, res.Effects)
	return res, nil
}

// Unlike moves LIKED to NONE; idempotent.
func (s *Service) Unlike(ctx context.Context, fromUserID, toUserID uint64) (removed bool, err error) {
	defer func() { metrics.RecordInteraction("unlike", err) }()

	if fromUserID == toUserID {
		return false, svcErr.ErrSelfInteraction
	}
	removed, err = s.interactions.Unlike(ctx, fromUserID, toUserID)
	if err != nil {
		return false, err
	}
	if removed {
		s.invalidateCount(ctx, toUserID)
	}
	return removed, nil
}

// Dislike moves (from, to) into DISLIKED, replacing a like of the pair.
func (s *Service) Dislike(ctx context.Context, fromUserID, toUserID uint64) (err error) {
	defer func() { metrics.RecordInteraction("dislike", err) }()

	if err := s.checkTarget(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if err := s.interactions.Dislike(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	// a replaced like lowers to's count
	s.invalidateCount(ctx, toUserID)
	return nil
}

// Undislike moves DISLIKED to NONE; idempotent.
func (s *Service) Undislike(ctx context.Context, fromUserID, toUserID uint64) (removed bool, err error) {
	defer func() { metrics.RecordInteraction("undislike", err) }()

	if fromUserID == toUserID {
		return false, svcErr.ErrSelfInteraction
	}
	return s.interactions.Undislike(ctx, fromUserID, toUserID)
}

// LikedPeople lists who userID liked, newest first, with match flags and
// the pictures of every liked user.
func (s *Service) LikedPeople(
	ctx context.Context,
	userID uint64,
	page pagination.Params,
) (pagination.Page[repository.LikedPerson], map[uint64][]db.Picture, error) {
	out, err := s.interactions.LikedPeople(ctx, userID, page)
	if err != nil {
		return out, nil, err
	}

	ids := make([]uint64, 0, len(out.Items))
	for _, item := range out.Items {
		ids = append(ids, item.ToUserID)
	}
	pics, err := s.pictures.ListByUsers(ctx, ids)
	if err != nil {
		return out, nil, err
	}
	return out, pics, nil
}

func (s *Service) checkTarget(ctx context.Context, fromUserID, toUserID uint64) error {
	if fromUserID == toUserID {
		return svcErr.ErrSelfInteraction
	}
	exists, err := s.users.Exists(ctx, toUserID)
	if err != nil {
		return err
	}
	if !exists {
		return svcErr.ErrInvalidUser
	}
	return nil
}

func (s *Service) invalidateCount(ctx context.Context, userID uint64) {
	if err := s.appCtx.RedisCache.InvalidateLikeCount(ctx, userID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate like count cache", "user_id", userID, "err", err)
	}
}

func (s *Service) publish(ctx context.Context, effects []notification.Effect) {
	if len(effects) == 0 || s.appCtx.Effects == nil {
		return
	}

	// the request may be cancelled right after the commit
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.appCtx.Effects.Publish(ctx, effects...); err != nil {
		s.appCtx.Logger.Error("failed to publish effects", "count", len(effects), "err", err)
		return
	}
	for _, e := range effects {
		metrics.RecordEffect(string(e.Type), "published")
	}
}
