package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/utils/pagination"
)

// LikedPerson is one row of "people I liked": the like, its target, and
// whether the target liked back.
type LikedPerson struct {
	LikeID    uint64
	ToUserID  uint64
	IsMatched bool
	LikedAt   time.Time
	ToUser    *db.User `gorm:"-"`
}

// InteractionStore is the persistence contract of like/dislike edges.
type InteractionStore interface {
	Like(ctx context.Context, fromUserID, toUserID uint64) error
	Unlike(ctx context.Context, fromUserID, toUserID uint64) (bool, error)
	Dislike(ctx context.Context, fromUserID, toUserID uint64) error
	Undislike(ctx context.Context, fromUserID, toUserID uint64) (bool, error)
	HasLiked(ctx context.Context, fromUserID, toUserID uint64) (bool, error)
	HasDisliked(ctx context.Context, fromUserID, toUserID uint64) (bool, error)
	CountLikesReceived(ctx context.Context, userID uint64) (int64, error)
	LikedPeople(ctx context.Context, userID uint64, page pagination.Params) (pagination.Page[LikedPerson], error)
}

// InteractionRepository provides data access for the likes and dislikes tables.
//
// Per ordered pair (from, to) the rows encode one of three states:
// NONE (no row), LIKED (likes row), DISLIKED (dislikes row). Both tables carry a
// unique (from_user_id, to_user_id) index; switching state deletes the opposite
// row and inserts the new one inside a single transaction.
type InteractionRepository struct {
	db        *gorm.DB
	txRetries int
}

var _ InteractionStore = (*InteractionRepository)(nil)

// NewInteractionRepository creates a new repository bound to the given DB connection.
func NewInteractionRepository(database *gorm.DB, txRetries int) *InteractionRepository {
	return &InteractionRepository{db: database, txRetries: txRetries}
}

// Like moves the pair (from, to) into LIKED.
//
// Behavior:
//   - ErrAlreadyLiked if the like exists (checked, and enforced by the unique index
//     when two requests race).
//   - A dislike of the same pair is deleted in the same transaction.
//   - ErrInvalidUser when either user does not exist.
//
// Example:
//
//	repo.Like(ctx, 1, 2) // user 1 liked user 2
func (r *InteractionRepository) Like(ctx context.Context, fromUserID, toUserID uint64) error {
	return inTx(ctx, r.db, r.txRetries, func(tx *gorm.DB) error {
		exists, err := edgeExists(tx, &db.Like{}, fromUserID, toUserID)
		if err != nil {
			return err
		}
		if exists {
			return svcErr.ErrAlreadyLiked
		}

		if err := deleteEdge(tx, &db.Dislike{}, fromUserID, toUserID); err != nil {
			return fmt.Errorf("delete opposite dislike: %w", err)
		}

		like := db.Like{FromUserID: fromUserID, ToUserID: toUserID}
		err = tx.Omit("FromUser", "ToUser").Create(&like).Error
		switch {
		case isDuplicate(err):
			return svcErr.ErrAlreadyLiked
		case isForeignKeyViolation(err):
			return svcErr.ErrInvalidUser
		}
		return err
	})
}

// Unlike moves LIKED to NONE. Idempotent; reports whether a row was removed.
func (r *InteractionRepository) Unlike(ctx context.Context, fromUserID, toUserID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Delete(&db.Like{})
	return res.RowsAffected > 0, res.Error
}

// Dislike moves the pair (from, to) into DISLIKED, deleting a like of the same pair.
func (r *InteractionRepository) Dislike(ctx context.Context, fromUserID, toUserID uint64) error {
	return inTx(ctx, r.db, r.txRetries, func(tx *gorm.DB) error {
		exists, err := edgeExists(tx, &db.Dislike{}, fromUserID, toUserID)
		if err != nil {
			return err
		}
		if exists {
			return svcErr.ErrAlreadyDisliked
		}

		if err := deleteEdge(tx, &db.Like{}, fromUserID, toUserID); err != nil {
			return fmt.Errorf("delete opposite like: %w", err)
		}

		dislike := db.Dislike{FromUserID: fromUserID, ToUserID: toUserID}
		err = tx.Omit("FromUser", "ToUser").Create(&dislike).Error
		switch {
		case isDuplicate(err):
			return svcErr.ErrAlreadyDisliked
		case isForeignKeyViolation(err):
			return svcErr.ErrInvalidUser
		}
		return err
	})
}

// Undislike moves DISLIKED to NONE. Idempotent; reports whether a row was removed.
func (r *InteractionRepository) Undislike(ctx context.Context, fromUserID, toUserID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Delete(&db.Dislike{})
	return res.RowsAffected > 0, res.Error
}

// HasLiked checks whether from liked to. Used for the match check after a like commits.
func (r *InteractionRepository) HasLiked(ctx context.Context, fromUserID, toUserID uint64) (bool, error) {
	return edgeExists(r.db.WithContext(ctx), &db.Like{}, fromUserID, toUserID)
}

func (r *InteractionRepository) HasDisliked(ctx context.Context, fromUserID, toUserID uint64) (bool, error) {
	return edgeExists(r.db.WithContext(ctx), &db.Dislike{}, fromUserID, toUserID)
}

// CountLikesReceived counts likes whose to_user_id is userID.
func (r *InteractionRepository) CountLikesReceived(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("to_user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// LikedPeople lists the users userID liked, newest first, each flagged with
// whether the like is mutual.
//
// Example:
//
//	repo.LikedPeople(ctx, 42, pagination.New(1, 10, 10, 50))
func (r *InteractionRepository) LikedPeople(
	ctx context.Context,
	userID uint64,
	page pagination.Params,
) (pagination.Page[LikedPerson], error) {
	out := pagination.Page[LikedPerson]{Params: page, Items: []LikedPerson{}}

	if err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_user_id = ?", userID).
		Count(&out.Total).Error; err != nil {
		return out, err
	}
	if out.Total == 0 {
		return out, nil
	}

	var rows []LikedPerson
	err := r.db.WithContext(ctx).
		Table("likes l").
		Select(`l.id AS like_id, l.to_user_id, l.created_at AS liked_at,
			EXISTS (
				SELECT 1 FROM likes r
				WHERE r.from_user_id = l.to_user_id
				  AND r.to_user_id = l.from_user_id
			) AS is_matched`).
		Where("l.from_user_id = ?", userID).
		Order("l.created_at DESC, l.id DESC").
		Limit(page.PerPage).
		Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return out, err
	}
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ToUserID)
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return out, err
	}
	byID := make(map[uint64]*db.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range rows {
		rows[i].ToUser = byID[rows[i].ToUserID]
	}

	out.Items = rows
	return out, nil
}

func edgeExists(tx *gorm.DB, model any, fromUserID, toUserID uint64) (bool, error) {
	var count int64
	err := tx.Model(model).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&count).Error
	return count > 0, err
}

func deleteEdge(tx *gorm.DB, model any, fromUserID, toUserID uint64) error {
	return tx.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).Delete(model).Error
}
