package profile

import (
	"time"

	"github.com/oggyb/swipe-api/internal/db"
	"github.com/oggyb/swipe-api/internal/validation"
)

// PublicUser is what other users may see. No email, no credential hash;
// birthday only when its owner made it visible.
type PublicUser struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	LookingForGenders []string `json:"lookingForGenders"`
	Bio               string   `json:"bio"`
	PhotoURL          string   `json:"photoUrl"`
	Photos            []string `json:"photos"`
	Province          *string  `json:"province"`
	City              *string  `json:"city"`
	Birthday          *string  `json:"birthday,omitempty"`
}

// SelfUser is the owner's view of their own profile.
type SelfUser struct {
	PublicUser
	Email        string    `json:"email"`
	ShowBirthday bool      `json:"showBirthday"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func Public(u *db.User, now time.Time) PublicUser {
	p := PublicUser{
		ID:                u.ID,
		Name:              u.Name,
		Age:               u.EffectiveAge(now),
		Gender:            u.Gender,
		LookingForGenders: nonNil(u.LookingForGenders),
		Bio:               u.Bio,
		PhotoURL:          u.PhotoURL,
		Photos:            nonNil(u.Photos),
		Province:          u.Province,
		City:              u.City,
	}
	if u.ShowBirthday {
		p.Birthday = formatDate(u.Birthday)
	}
	return p
}

func Self(u *db.User, now time.Time) SelfUser {
	s := SelfUser{
		PublicUser:   Public(u, now),
		Email:        u.Email,
		ShowBirthday: u.ShowBirthday,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	s.Birthday = formatDate(u.Birthday)
	return s
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(validation.DateLayout)
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
