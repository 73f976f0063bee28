package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/utils/pagination"
)

// RankedUser is a user together with the number of likes they received.
type RankedUser struct {
	db.User
	LikedByCount int64
}

// UserStore is the persistence contract of user profiles and discovery.
type UserStore interface {
	Create(ctx context.Context, user *db.User) error
	FindByID(ctx context.Context, id uint64) (*db.User, error)
	FindByEmail(ctx context.Context, email string) (*db.User, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Update(ctx context.Context, id uint64, fields map[string]any) (*db.User, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	Recommended(ctx context.Context, userID uint64, page pagination.Params) (pagination.Page[RankedUser], error)
	WithLikesAtLeast(ctx context.Context, threshold int64) ([]RankedUser, error)
}

// UserRepository provides data access for users, including the discovery query.
type UserRepository struct {
	db *gorm.DB
}

var _ UserStore = (*UserRepository)(nil)

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a user; a taken email surfaces as ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if isDuplicate(err) {
		return svcErr.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update applies a partial set of column updates and returns the fresh row.
func (r *UserRepository) Update(ctx context.Context, id uint64, fields map[string]any) (*db.User, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&db.User{ID: id}).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the user; likes, dislikes and pictures go with it through
// the ON DELETE CASCADE foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&db.User{}, id)
	return res.RowsAffected > 0, res.Error
}

// Recommended returns the discovery feed of a user.
//
// Behavior:
//   - Candidates are all users except the viewer, users the viewer liked and
//     users the viewer disliked.
//   - Ordered by received likes DESC, then id ASC so pages stay stable.
//   - Offset pagination; Total counts the whole candidate set.
//
// Example:
//
//	repo.Recommended(ctx, 42, pagination.New(1, 10, 10, 50))
func (r *UserRepository) Recommended(
	ctx context.Context,
	userID uint64,
	page pagination.Params,
) (pagination.Page[RankedUser], error) {
	out := pagination.Page[RankedUser]{Params: page}

	candidates := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Table("users").
			Where("users.id <> ?", userID).
			Where("users.id NOT IN (?)", r.db.Table("likes").Select("to_user_id").Where("from_user_id = ?", userID)).
			Where("users.id NOT IN (?)", r.db.Table("dislikes").Select("to_user_id").Where("from_user_id = ?", userID))
	}

	if err := candidates().Count(&out.Total).Error; err != nil {
		return out, fmt.Errorf("count candidates: %w", err)
	}
	if out.Total == 0 {
		out.Items = []RankedUser{}
		return out, nil
	}

	var rows []RankedUser
	err := candidates().
		Select("users.*, (SELECT COUNT(*) FROM likes l WHERE l.to_user_id = users.id) AS liked_by_count").
		Order("liked_by_count DESC, users.id ASC").
		Limit(page.PerPage).
		Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return out, fmt.Errorf("list candidates: %w", err)
	}
	if rows == nil {
		rows = []RankedUser{}
	}
	out.Items = rows
	return out, nil
}

// WithLikesAtLeast returns every user whose received-like count is >= threshold,
// most liked first. It drives the daily notification sweep.
func (r *UserRepository) WithLikesAtLeast(ctx context.Context, threshold int64) ([]RankedUser, error) {
	var rows []RankedUser
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*, COUNT(l.id) AS liked_by_count").
		Joins("JOIN likes l ON l.to_user_id = users.id").
		Group("users.id").
		Having("COUNT(l.id) >= ?", threshold).
		Order("liked_by_count DESC, users.id ASC").
		Scan(&rows).Error
	return rows, err
}
