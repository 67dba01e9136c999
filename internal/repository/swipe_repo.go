package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/db"
)

// SwipeRepository provides data access methods for the Swipe model.
// It encapsulates all queries related to left/right decisions between users.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Create inserts the swiper -> swiped decision.
//
// Behavior:
//   - Plain insert, never an upsert: a second decision on the same ordered
//     pair fails with gorm.ErrDuplicatedKey from the composite PK.
//
// Example:
//
//	repo.Create(ctx, "u1", "u2", db.DirectionRight) // u1 liked u2
func (r *SwipeRepository) Create(ctx context.Context, swiperID, swipedID, direction string) error {
	swipe := db.Swipe{
		SwiperID:  swiperID,
		SwipedID:  swipedID,
		Direction: direction,
	}
	return r.db.WithContext(ctx).Create(&swipe).Error
}

// Exists reports whether swiper already decided on swiped, in any direction.
func (r *SwipeRepository) Exists(ctx context.Context, swiperID, swipedID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ?", swiperID, swipedID).
		Count(&count).Error
	return count > 0, err
}

// HasSwipedRight checks whether swiper liked swiped.
//
// Behavior:
//   - Returns true only for a row with direction = right.
//   - Used for reciprocal-like detection when recording a right swipe.
//
// Example:
//
//	repo.HasSwipedRight(ctx, "u2", "u1") // did u2 already like u1 back?
func (r *SwipeRepository) HasSwipedRight(ctx context.Context, swiperID, swipedID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ? AND direction = ?", swiperID, swipedID, db.DirectionRight).
		Count(&count).Error
	return count > 0, err
}

// CountForPair returns how many swipe rows exist between a and b, both directions.
func (r *SwipeRepository) CountForPair(ctx context.Context, a, b string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("(swiper_id = ? AND swiped_id = ?) OR (swiper_id = ? AND swiped_id = ?)", a, b, b, a).
		Count(&count).Error
	return count, err
}
