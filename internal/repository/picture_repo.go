package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
)

// PictureStore is the persistence contract of user pictures.
type PictureStore interface {
	Create(ctx context.Context, picture *db.Picture) error
	FindForUser(ctx context.Context, userID, pictureID uint64) (*db.Picture, error)
	ListByUser(ctx context.Context, userID uint64) ([]db.Picture, error)
	ListByUsers(ctx context.Context, userIDs []uint64) (map[uint64][]db.Picture, error)
	SetPrimary(ctx context.Context, userID, pictureID uint64) (*db.Picture, error)
	Reorder(ctx context.Context, userID uint64, pictureIDs []uint64) error
	Delete(ctx context.Context, userID, pictureID uint64) (*db.Picture, error)
}

// PictureRepository keeps the per-user picture list and its single-primary invariant.
type PictureRepository struct {
	db        *gorm.DB
	txRetries int
}

var _ PictureStore = (*PictureRepository)(nil)

// NewPictureRepository creates a new repository bound to the given DB connection.
func NewPictureRepository(database *gorm.DB, txRetries int) *PictureRepository {
	return &PictureRepository{db: database, txRetries: txRetries}
}

// Create appends a picture at the end of the user's list.
// When the picture is primary, every other primary flag of the user is cleared
// in the same transaction.
func (r *PictureRepository) Create(ctx context.Context, picture *db.Picture) error {
	return inTx(ctx, r.db, r.txRetries, func(tx *gorm.DB) error {
		if picture.IsPrimary {
			if err := lockPictures(tx, picture.UserID); err != nil {
				return err
			}
			if err := clearPrimary(tx, picture.UserID); err != nil {
				return err
			}
		}

		var maxOrder int
		if err := tx.Model(&db.Picture{}).
			Where("user_id = ?", picture.UserID).
			Select("COALESCE(MAX(sort_order), 0)").
			Row().Scan(&maxOrder); err != nil {
			return err
		}
		picture.SortOrder = maxOrder + 1

		err := tx.Omit("User").Create(picture).Error
		if isForeignKeyViolation(err) {
			return svcErr.ErrInvalidUser
		}
		return err
	})
}

// FindForUser loads a picture only if it belongs to userID.
func (r *PictureRepository) FindForUser(ctx context.Context, userID, pictureID uint64) (*db.Picture, error) {
	return findPicture(r.db.WithContext(ctx), userID, pictureID)
}

func (r *PictureRepository) ListByUser(ctx context.Context, userID uint64) ([]db.Picture, error) {
	var pictures []db.Picture
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC, id ASC").
		Find(&pictures).Error
	return pictures, err
}

// ListByUsers batches the picture lookup of a page of users.
func (r *PictureRepository) ListByUsers(ctx context.Context, userIDs []uint64) (map[uint64][]db.Picture, error) {
	out := make(map[uint64][]db.Picture, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var pictures []db.Picture
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("user_id ASC, sort_order ASC, id ASC").
		Find(&pictures).Error
	if err != nil {
		return nil, err
	}
	for _, p := range pictures {
		out[p.UserID] = append(out[p.UserID], p)
	}
	return out, nil
}

// SetPrimary moves the primary flag onto pictureID; it is never duplicated.
func (r *PictureRepository) SetPrimary(ctx context.Context, userID, pictureID uint64) (*db.Picture, error) {
	var picture *db.Picture
	err := inTx(ctx, r.db, r.txRetries, func(tx *gorm.DB) error {
		if err := lockPictures(tx, userID); err != nil {
			return err
		}
		p, err := findPicture(tx, userID, pictureID)
		if err != nil {
			return err
		}
		if err := clearPrimary(tx, userID); err != nil {
			return err
		}
		if err := tx.Model(&db.Picture{}).Where("id = ?", p.ID).Update("is_primary", true).Error; err != nil {
			return err
		}
		p.IsPrimary = true
		picture = p
		return nil
	})
	return picture, err
}

// Reorder assigns order = index+1 following pictureIDs.
// Every id must belong to userID, otherwise nothing changes.
func (r *PictureRepository) Reorder(ctx context.Context, userID uint64, pictureIDs []uint64) error {
	if len(pictureIDs) == 0 {
		return svcErr.ErrInvalidArgument
	}

	return inTx(ctx, r.db, r.txRetries, func(tx *gorm.DB) error {
		var owned []uint64
		if err := tx.Model(&db.Picture{}).Where("user_id = ?", userID).Pluck("id", &owned).Error; err != nil {
			return err
		}
		set := make(map[uint64]struct{}, len(owned))
		for _, id := range owned {
			set[id] = struct{}{}
		}
		seen := make(map[uint64]struct{}, len(pictureIDs))
		for _, id := range pictureIDs {
			if _, ok := set[id]; !ok {
				return svcErr.ErrNotFound
			}
			if _, dup := seen[id]; dup {
				return svcErr.ErrInvalidArgument
			}
			seen[id] = struct{}{}
		}

		for i, id := range pictureIDs {
			if err := tx.Model(&db.Picture{}).
				Where("id = ? AND user_id = ?", id, userID).
				Update("sort_order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a picture owned by userID and returns the deleted row so the
// caller can drop the stored blob.
func (r *PictureRepository) Delete(ctx context.Context, userID, pictureID uint64) (*db.Picture, error) {
	var picture *db.Picture
	err := inTx(ctx, r.db, r.txRetries, func(tx *gorm.DB) error {
		p, err := findPicture(tx, userID, pictureID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&db.Picture{}, p.ID).Error; err != nil {
			return err
		}
		picture = p
		return nil
	})
	return picture, err
}

func findPicture(tx *gorm.DB, userID, pictureID uint64) (*db.Picture, error) {
	var p db.Picture
	err := tx.Where("id = ? AND user_id = ?", pictureID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// lockPictures takes row locks on every picture of userID so concurrent primary
// changes of the same user run one after another. SQLite ignores the clause;
// its writers are already serialised.
func lockPictures(tx *gorm.DB, userID uint64) error {
	var ids []uint64
	return picturesForUpdate(tx, userID).Pluck("id", &ids).Error
}

func picturesForUpdate(tx *gorm.DB, userID uint64) *gorm.DB {
	return tx.Model(&db.Picture{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("user_id = ?", userID).
		Order("id ASC")
}

func clearPrimary(tx *gorm.DB, userID uint64) error {
	return tx.Model(&db.Picture{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Update("is_primary", false).Error
}
