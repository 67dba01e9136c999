package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	seedNames = map[string][]string{
		GenderMale:      {"Alex", "Ben", "Chris", "Daniel", "Ethan", "Felix", "Gabriel", "Henry"},
		GenderFemale:    {"Ava", "Bella", "Chloe", "Diana", "Emma", "Fiona", "Grace", "Hannah"},
		GenderNonBinary: {"Jordan", "Riley", "Sky", "Quinn"},
		GenderOther:     {"Rowan", "Sage"},
	}

	seedBios = []string{
		"Coffee enthusiast | Love hiking and exploring new trails",
		"Foodie on a mission to find the best tacos | Dog parent",
		"Weekend warrior | Into photography and live music",
		"Bookworm looking for someone to discuss plot twists with",
		"Amateur chef experimenting with fusion cuisine",
		"Ocean lover | Surfing, sailing, or just beach walks",
	}

	seedLocations = [][2]string{
		{"Metro Manila", "Makati"},
		{"Metro Manila", "Quezon City"},
		{"Cebu", "Cebu City"},
		{"Davao del Sur", "Davao City"},
	}

	seedPreferences = [][]string{
		{PreferenceMen},
		{PreferenceWomen},
		{PreferenceEveryone},
		{PreferenceMen, PreferenceWomen},
		{PreferenceWomen, PreferenceNonBinary},
	}
)

// SeedPassword is the plaintext password of every seeded account.
const SeedPassword = "password123"

// SeedTestData resets the database and populates it with demo profiles.
//
// Behavior:
//  1. Clears messages, matches, swipes and users.
//  2. Creates one profile per seed name, cycling through bios, locations
//     and preference sets so every gender/preference pairing is present.
//  3. Adds a handful of swipes, with every third right swipe reciprocated
//     and turned into a match.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := Reset(db); err != nil {
		return err
	}
	slog.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var users []User
	i := 0
	for _, gender := range []string{GenderMale, GenderFemale, GenderNonBinary, GenderOther} {
		for _, name := range seedNames[gender] {
			loc := seedLocations[i%len(seedLocations)]
			province, city := loc[0], loc[1]
			users = append(users, User{
				Email:             fmt.Sprintf("%s%d@example.com", name, i),
				PasswordHash:      string(hash),
				Name:              name,
				Age:               21 + r.Intn(20),
				Gender:            gender,
				LookingForGenders: seedPreferences[i%len(seedPreferences)],
				Bio:               seedBios[i%len(seedBios)],
				PhotoURL:          fmt.Sprintf("https://i.pravatar.cc/400?u=%d", i),
				Photos:            []string{},
				Province:          &province,
				City:              &city,
			})
			i++
		}
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	slog.Info("seeded users", "count", len(users))

	counter := 0
	for a := range users {
		for j := 0; j < 4; j++ {
			b := r.Intn(len(users))
			if a == b {
				continue
			}
			swiper, swiped := users[a].ID, users[b].ID

			direction := DirectionLeft
			if r.Intn(100) < 60 {
				direction = DirectionRight
			}
			if err := db.Create(&Swipe{SwiperID: swiper, SwipedID: swiped, Direction: direction}).Error; err != nil {
				// pair already decided in an earlier iteration
				continue
			}

			if direction == DirectionRight && counter%3 == 0 {
				if db.Create(&Swipe{SwiperID: swiped, SwipedID: swiper, Direction: DirectionRight}).Error == nil {
					u1, u2 := CanonicalPair(swiper, swiped)
					if err := db.Create(&Match{User1ID: u1, User2ID: u2}).Error; err != nil {
						return fmt.Errorf("failed to seed match: %w", err)
					}
				}
			}
			counter++
		}
	}
	slog.Info("seeded swipes", "count", counter)

	return nil
}

// Reset deletes every row from the application tables.
func Reset(db *gorm.DB) error {
	for _, table := range []string{"messages", "matches", "swipes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// IsEmpty reports whether no user exists yet.
func IsEmpty(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
