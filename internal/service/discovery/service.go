package discovery

import (
	"context"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/repository"
	"github.com/oggyb/swipe-match/internal/utils/pagination"
)

// Service implements the discovery feed and profile lookups.
type Service struct {
	appCtx   *app.AppContext
	users    repository.UserStore
	pictures repository.PictureStore
}

// NewService creates the discovery service with repositories built from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		pictures: repository.NewPictureRepository(appCtx.DB, appCtx.Config.DB.TxRetries),
	}
}

// Recommended returns one page of candidates for userID.
//
// Behavior:
//   - Excludes userID and everyone userID liked or disliked.
//   - Most liked first, id ASC on ties.
//   - Pictures of every candidate on the page are loaded in one query.
//
// Example:
//
//	page, pics, err := svc.Recommended(ctx, 42, pagination.New(1, 10, 10, 50))
func (s *Service) Recommended(
	ctx context.Context,
	userID uint64,
	page pagination.Params,
) (pagination.Page[repository.RankedUser], map[uint64][]db.Picture, error) {
	s.appCtx.Logger.Debug("Recommended called", "user_id", userID, "page", page.Page, "per_page", page.PerPage)

	out, err := s.users.Recommended(ctx, userID, page)
	if err != nil {
		return out, nil, err
	}

	ids := make([]uint64, 0, len(out.Items))
	for _, u := range out.Items {
		ids = append(ids, u.ID)
	}
	pics, err := s.pictures.ListByUsers(ctx, ids)
	if err != nil {
		return out, nil, err
	}
	return out, pics, nil
}

// GetByID returns another user's profile. Looking up yourself is NotFound,
// the same as a missing id.
func (s *Service) GetByID(ctx context.Context, userID, targetID uint64) (*db.User, []db.Picture, error) {
	if userID == targetID {
		return nil, nil, svcErr.ErrNotFound
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	pics, err := s.pictures.ListByUser(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	return user, pics, nil
}
