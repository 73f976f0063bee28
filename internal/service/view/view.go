// Package view holds the JSON shapes the HTTP handlers return.
package view

import (
	"time"

	"github.com/oggyb/swipe-match/internal/db"
	"github.com/oggyb/swipe-match/internal/repository"
)

type Picture struct {
	ID        uint64    `json:"id"`
	URL       string    `json:"url"`
	IsPrimary bool      `json:"is_primary"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a profile. Email is only filled for the owner.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Age          int       `json:"age"`
	Location     string    `json:"location"`
	Bio          *string   `json:"bio"`
	LikedByCount *int64    `json:"liked_by_count,omitempty"`
	Pictures     []Picture `json:"pictures"`
	CreatedAt    time.Time `json:"created_at"`
}

// LikedPerson is one item of GET /likes.
type LikedPerson struct {
	ID        uint64    `json:"id"`
	ToUser    *User     `json:"to_user"`
	IsMatched bool      `json:"is_matched"`
	LikedAt   time.Time `json:"liked_at"`
}

func NewPicture(p db.Picture) Picture {
	return Picture{ID: p.ID, URL: p.URL, IsPrimary: p.IsPrimary, Order: p.SortOrder, CreatedAt: p.CreatedAt}
}

func NewPictures(pics []db.Picture) []Picture {
	out := make([]Picture, 0, len(pics))
	for _, p := range pics {
		out = append(out, NewPicture(p))
	}
	return out
}

// NewUser renders someone else's profile.
func NewUser(u *db.User, pics []db.Picture) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Location:  u.Location,
		Bio:       u.Bio,
		Pictures:  NewPictures(pics),
		CreatedAt: u.CreatedAt,
	}
}

// NewOwnUser renders the caller's own profile, email included.
func NewOwnUser(u *db.User, pics []db.Picture) User {
	v := NewUser(u, pics)
	v.Email = u.Email
	return v
}

// NewRankedUser renders a discovery candidate with its popularity.
func NewRankedUser(u repository.RankedUser, pics []db.Picture) User {
	v := NewUser(&u.User, pics)
	count := u.LikedByCount
	v.LikedByCount = &count
	return v
}

func NewLikedPerson(p repository.LikedPerson, pics []db.Picture) LikedPerson {
	out := LikedPerson{ID: p.LikeID, IsMatched: p.IsMatched, LikedAt: p.LikedAt}
	if p.ToUser != nil {
		u := NewUser(p.ToUser, pics)
		out.ToUser = &u
	}
	return out
}
