package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the plain password of every seeded account.
const SeedPassword = "password"

var seedLocations = []string{"Berlin", "Lisbon", "Oslo", "Warsaw", "Madrid"}

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears likes, dislikes, pictures and users.
//  2. Creates `users` users (user{i}@example.com / SeedPassword), each with
//     two pictures, the first one primary.
//  3. Every user decides on ~12 others: ~70% likes, the rest dislikes, and
//     every 3rd like is reciprocated so matches exist.
//
// Pair exclusivity holds: a pair gets either a like or a dislike, never both.
func SeedTestData(db *gorm.DB, users int, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := reset(db); err != nil {
		return err
	}
	log.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ids := make([]uint64, 0, users)
	for i := 1; i <= users; i++ {
		user := User{
			Name:         fmt.Sprintf("User %d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Age:          18 + r.Intn(40),
			Location:     seedLocations[r.Intn(len(seedLocations))],
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		ids = append(ids, user.ID)

		for n := 1; n <= 2; n++ {
			pic := Picture{
				UserID:    user.ID,
				URL:       fmt.Sprintf("https://picsum.photos/seed/%d-%d/400/600", user.ID, n),
				IsPrimary: n == 1,
				SortOrder: n,
			}
			if err := db.Omit("User").Create(&pic).Error; err != nil {
				return fmt.Errorf("failed to seed picture: %w", err)
			}
		}
	}
	log.Info("seeded users", "count", len(ids))

	type pair struct{ from, to uint64 }
	decided := make(map[pair]bool)
	var likes []Like
	var dislikes []Dislike

	counter := 0
	for _, from := range ids {
		for j := 0; j < 12 && len(ids) > 1; j++ {
			to := ids[r.Intn(len(ids))]
			if to == from || decided[pair{from, to}] {
				continue
			}
			decided[pair{from, to}] = true

			if r.Intn(100) >= 70 {
				dislikes = append(dislikes, Dislike{FromUserID: from, ToUserID: to})
				continue
			}
			likes = append(likes, Like{FromUserID: from, ToUserID: to})

			// reciprocate every 3rd like
			if counter%3 == 0 && !decided[pair{to, from}] {
				decided[pair{to, from}] = true
				likes = append(likes, Like{FromUserID: to, ToUserID: from})
			}
			counter++
		}
	}

	if len(likes) > 0 {
		if err := db.Omit("FromUser", "ToUser").CreateInBatches(&likes, 100).Error; err != nil {
			return fmt.Errorf("failed to seed likes: %w", err)
		}
	}
	if len(dislikes) > 0 {
		if err := db.Omit("FromUser", "ToUser").CreateInBatches(&dislikes, 100).Error; err != nil {
			return fmt.Errorf("failed to seed dislikes: %w", err)
		}
	}
	log.Info("seeded interactions", "likes", len(likes), "dislikes", len(dislikes))

	return nil
}

func reset(db *gorm.DB) error {
	for _, table := range []string{"likes", "dislikes", "pictures", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"likes", "dislikes", "pictures", "users"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('likes', 'dislikes', 'pictures', 'users')")
	case "postgres":
		for _, table := range []string{"likes", "dislikes", "pictures", "users"} {
			db.Exec("ALTER SEQUENCE " + table + "_id_seq RESTART WITH 1")
		}
	}
	return nil
}
