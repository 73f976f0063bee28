package profile

import (
	"context"
	"strings"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/repository"
	"github.com/oggyb/swipe-match/internal/storage"
	"github.com/oggyb/swipe-match/internal/utils/validate"
)

// UpdateInput is a partial profile update; nil fields are left alone.
// Email and password are not editable here.
type UpdateInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255,singleline"`
	Age      *int    `json:"age" validate:"omitempty,gte=18,lte=120"`
	Location *string `json:"location" validate:"omitempty,min=1,max=255,singleline"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}

// Service implements the caller's own profile.
type Service struct {
	appCtx       *app.AppContext
	users        repository.UserStore
	pictures     repository.PictureStore
	interactions repository.InteractionStore
	blobs        storage.Store
}

// NewService creates the profile service with repositories built from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		users:        repository.NewUserRepository(appCtx.DB),
		pictures:     repository.NewPictureRepository(appCtx.DB, appCtx.Config.DB.TxRetries),
		interactions: repository.NewInteractionRepository(appCtx.DB, appCtx.Config.DB.TxRetries),
		blobs:        appCtx.Storage,
	}
}

// Get returns userID's profile and pictures.
func (s *Service) Get(ctx context.Context, userID uint64) (*db.User, []db.Picture, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	pics, err := s.pictures.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, pics, nil
}

// Update applies the non-nil fields of in. An empty bio clears it.
func (s *Service) Update(ctx context.Context, userID uint64, in UpdateInput) (*db.User, []db.Picture, error) {
	trim(in.Name)
	trim(in.Location)
	if err := validate.Struct(in); err != nil {
		return nil, nil, err
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Age != nil {
		fields["age"] = *in.Age
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.Bio != nil {
		if *in.Bio == "" {
			fields["bio"] = nil
		} else {
			fields["bio"] = *in.Bio
		}
	}

	if _, err := s.users.Update(ctx, userID, fields); err != nil {
		return nil, nil, err
	}
	return s.Get(ctx, userID)
}

// Delete removes the account. Likes, dislikes and picture rows cascade;
// stored blobs are removed best-effort afterwards.
func (s *Service) Delete(ctx context.Context, userID uint64) error {
	pics, err := s.pictures.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return svcErr.ErrNotFound
	}

	for _, p := range pics {
		if p.StorageKey == "" || s.blobs == nil {
			continue
		}
		if err := s.blobs.Delete(ctx, p.StorageKey); err != nil {
			s.appCtx.Logger.Warn("failed to delete picture blob", "user_id", userID, "key", p.StorageKey, "err", err)
		}
	}
	if err := s.appCtx.RedisCache.InvalidateLikeCount(ctx, userID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate like count cache", "user_id", userID, "err", err)
	}

	s.appCtx.Logger.Info("user deleted", "user_id", userID, "pictures", len(pics))
	return nil
}

// LikeCount returns how many likes userID received.
//
// Behavior:
//   - Check Redis cache first (likes:count:{userID}).
//   - If cache miss, query DB and populate cache with the configured TTL.
//   - Likes and unlikes of the user drop the cached value.
func (s *Service) LikeCount(ctx context.Context, userID uint64) (int64, error) {
	ttl := s.appCtx.Config.Likes.CountCacheTTL

	count, ok, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID, ttl)
	if err != nil {
		s.appCtx.Logger.Warn("like count cache read failed", "user_id", userID, "err", err)
	} else if ok {
		s.appCtx.Logger.Debug("like count cache hit", "user_id", userID, "count", count)
		return count, nil
	}

	count, err = s.interactions.CountLikesReceived(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.appCtx.RedisCache.SetLikeCount(ctx, userID, count, ttl); err != nil {
		s.appCtx.Logger.Warn("like count cache write failed", "user_id", userID, "err", err)
	}
	return count, nil
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
