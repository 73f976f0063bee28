package picture

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/db"
	"github.com/oggyb/swipe-match/internal/repository"
	"github.com/oggyb/swipe-match/internal/storage"
)

// Service implements the caller's picture gallery.
type Service struct {
	appCtx   *app.AppContext
	pictures repository.PictureStore
	blobs    storage.Store
	maxBytes int64
}

// NewService creates the picture service with repositories built from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		pictures: repository.NewPictureRepository(appCtx.DB, appCtx.Config.DB.TxRetries),
		blobs:    appCtx.Storage,
		maxBytes: appCtx.Config.Storage.MaxUploadBytes,
	}
}

// List returns userID's pictures by order.
func (s *Service) List(ctx context.Context, userID uint64) ([]db.Picture, error) {
	return s.pictures.ListByUser(ctx, userID)
}

// Upload validates and stores an image, then appends it to userID's gallery.
//
// Behavior:
//   - The blob is stored under {userID}/{uuid}.{ext}.
//   - The new picture gets order = max+1; isPrimary moves the primary flag to it.
//   - If the row cannot be written the stored blob is removed again.
func (s *Service) Upload(ctx context.Context, userID uint64, data []byte, isPrimary bool) (*db.Picture, error) {
	info, err := inspect(data, s.maxBytes)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d/%s.%s", userID, uuid.NewString(), info.Ext)
	url, err := s.blobs.Put(ctx, key, info.ContentType, data)
	if err != nil {
		return nil, fmt.Errorf("store picture: %w", err)
	}

	picture := &db.Picture{
		UserID:     userID,
		URL:        url,
		StorageKey: key,
		IsPrimary:  isPrimary,
	}
	if err := s.pictures.Create(ctx, picture); err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.appCtx.Logger.Warn("failed to remove orphaned blob", "key", key, "err", derr)
		}
		return nil, err
	}

	s.appCtx.Logger.Info("picture uploaded",
		"user_id", userID, "picture_id", picture.ID, "width", info.Width, "height", info.Height)
	return picture, nil
}

// Delete removes one of userID's pictures and its blob.
func (s *Service) Delete(ctx context.Context, userID, pictureID uint64) error {
	picture, err := s.pictures.Delete(ctx, userID, pictureID)
	if err != nil {
		return err
	}
	if picture.StorageKey != "" {
		if err := s.blobs.Delete(ctx, picture.StorageKey); err != nil {
			s.appCtx.Logger.Warn("failed to delete picture blob", "key", picture.StorageKey, "err", err)
		}
	}
	return nil
}

// SetPrimary makes pictureID the only primary picture of userID.
func (s *Service) SetPrimary(ctx context.Context, userID, pictureID uint64) (*db.Picture, error) {
	return s.pictures.SetPrimary(ctx, userID, pictureID)
}

// Reorder sets order = index+1 along pictureIDs and returns the new list.
func (s *Service) Reorder(ctx context.Context, userID uint64, pictureIDs []uint64) ([]db.Picture, error) {
	if err := s.pictures.Reorder(ctx, userID, pictureIDs); err != nil {
		return nil, err
	}
	return s.pictures.ListByUser(ctx, userID)
}
