package db

import (
	"time"
)

// User table
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"size:255;not null"`
	Email        string    `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Age          int       `gorm:"not null"`
	Location     string    `gorm:"size:255;not null"`
	Bio          *string   `gorm:"size:500"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Picture is one ordered photo of a user.
//
// At most one picture per user carries IsPrimary; SortOrder is 1-based per user.
type Picture struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;index:idx_pictures_user_order,priority:1"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE"`
	URL        string    `gorm:"size:512;not null"`
	StorageKey string    `gorm:"size:255"`
	IsPrimary  bool      `gorm:"not null;default:false"`
	SortOrder  int       `gorm:"column:sort_order;not null;index:idx_pictures_user_order,priority:2"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Like is a directed like edge from one user to another.
//
// Unique index: (from_user_id, to_user_id)
//   - A user likes another user at most once at a time.
//
// Index: to_user_id
//   - Received-like counts for popularity ranking and threshold checks.
//
// Both user references cascade on delete.
type Like struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FromUserID uint64    `gorm:"not null;uniqueIndex:idx_likes_from_to,priority:1"`
	ToUserID   uint64    `gorm:"not null;uniqueIndex:idx_likes_from_to,priority:2;index:idx_likes_to"`
	FromUser   *User     `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE"`
	ToUser     *User     `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Dislike is a directed pass edge; same shape and constraints as Like.
type Dislike struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FromUserID uint64    `gorm:"not null;uniqueIndex:idx_dislikes_from_to,priority:1"`
	ToUserID   uint64    `gorm:"not null;uniqueIndex:idx_dislikes_from_to,priority:2;index:idx_dislikes_to"`
	FromUser   *User     `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE"`
	ToUser     *User     `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Models lists every table in migration order.
func Models() []any {
	return []any{&User{}, &Picture{}, &Like{}, &Dislike{}}
}
