package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender identities a profile can carry.
const (
	GenderMale      = "Male"
	GenderFemale    = "Female"
	GenderNonBinary = "Non-binary"
	GenderOther     = "Other"
)

// Preference labels stored in User.LookingForGenders.
const (
	PreferenceMen       = "Men"
	PreferenceWomen     = "Women"
	PreferenceNonBinary = "Non-binary"
	PreferenceEveryone  = "Everyone"
)

// Swipe directions.
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// User holds identity and dating-profile attributes.
//
// Age is stored, but when Birthday is set it is authoritative and Age is
// recomputed from it whenever the profile is written.
type User struct {
	ID                string     `gorm:"primaryKey;size:36"`
	Email             string     `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash      string     `gorm:"size:255;not null"`
	Name              string     `gorm:"size:100;not null"`
	Age               int        `gorm:"not null"`
	Birthday          *time.Time `gorm:"type:date"`
	ShowBirthday      bool       `gorm:"not null;default:false"`
	Gender            string     `gorm:"size:16;not null;index"`
	LookingForGenders []string   `gorm:"serializer:json;type:text"`
	Bio               string     `gorm:"size:500"`
	PhotoURL          string     `gorm:"size:512"`
	Photos            []string   `gorm:"serializer:json;type:text"`
	Province          *string    `gorm:"size:100;index:idx_users_location,priority:1"`
	City              *string    `gorm:"size:100;index:idx_users_location,priority:2"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// EffectiveAge returns the age derived from Birthday at now, or the stored Age.
func (u *User) EffectiveAge(now time.Time) int {
	if u.Birthday == nil {
		return u.Age
	}
	return AgeAt(*u.Birthday, now)
}

// AgeAt returns the number of full years between birthday and now.
func AgeAt(birthday, now time.Time) int {
	years := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() || (now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		years--
	}
	return years
}

// Swipe is a directional decision by one user about another.
//
// Composite PK: (SwiperID, SwipedID)
//   - At most one row per ordered pair. Re-swiping is rejected, never overwritten.
//
// Indexes:
//   - idx_swipes_swiped_direction(swiped_id, direction)
//     Serves the reciprocal right-swipe lookup and the feed exclusion subquery.
type Swipe struct {
	SwiperID  string    `gorm:"primaryKey;size:36"`
	SwipedID  string    `gorm:"primaryKey;size:36;index:idx_swipes_swiped_direction,priority:1"`
	Direction string    `gorm:"size:8;not null;index:idx_swipes_swiped_direction,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match is the symmetric relationship formed by two mutual right swipes.
//
// User1ID < User2ID always (string comparison), so each unordered pair maps
// to exactly one row; idx_matches_pair enforces it.
type Match struct {
	ID          string    `gorm:"primaryKey;size:36"`
	User1ID     string    `gorm:"size:36;not null;uniqueIndex:idx_matches_pair,priority:1"`
	User2ID     string    `gorm:"size:36;not null;uniqueIndex:idx_matches_pair,priority:2;index"`
	User1Viewed bool      `gorm:"not null;default:false"`
	User2Viewed bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (m *Match) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Has reports whether userID participates in the match.
func (m *Match) Has(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Other returns the participant that is not userID.
func (m *Match) Other(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// ViewedBy reports whether userID has acknowledged the match.
func (m *Match) ViewedBy(userID string) bool {
	if m.User1ID == userID {
		return m.User1Viewed
	}
	return m.User2Viewed
}

// CanonicalPair orders two user ids so the smaller one comes first.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Message belongs to a Match.
type Message struct {
	ID         string    `gorm:"primaryKey;size:36"`
	MatchID    string    `gorm:"size:36;not null;index:idx_messages_match_created,priority:1"`
	SenderID   string    `gorm:"size:36;not null"`
	ReceiverID string    `gorm:"size:36;not null;index"`
	Content    string    `gorm:"type:text;not null"`
	Read       bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_messages_match_created,priority:2"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
