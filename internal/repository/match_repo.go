package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/db"
	"github.com/oggyb/swipe-api/internal/utils/pagination"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// Create inserts a match for the canonical pair.
//
// Behavior:
//   - Orders the ids so User1ID < User2ID before inserting.
//   - A row for the same pair already present fails with gorm.ErrDuplicatedKey
//     (idx_matches_pair); callers decide how to recover.
//
// Example:
//
//	m, err := repo.Create(ctx, "u2", "u1") // stored as (u1, u2)
func (r *MatchRepository) Create(ctx context.Context, a, b string) (*db.Match, error) {
	u1, u2 := db.CanonicalPair(a, b)
	m := db.Match{User1ID: u1, User2ID: u2}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID returns gorm.ErrRecordNotFound when the match does not exist.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*db.Match, error) {
	var m db.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByPair looks up the match between a and b in either argument order.
func (r *MatchRepository) GetByPair(ctx context.Context, a, b string) (*db.Match, error) {
	u1, u2 := db.CanonicalPair(a, b)
	var m db.Match
	if err := r.db.WithContext(ctx).Where("user1_id = ? AND user2_id = ?", u1, u2).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns the matches userID takes part in, newest first.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListForUser(ctx, "u1", nil, 20) // first 20 matches of u1
func (r *MatchRepository) ListForUser(
	ctx context.Context,
	userID string,
	paginationToken *string,
	limit int,
) ([]db.Match, *string, error) {
	var matches []db.Match

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Find(&matches).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(matches) > limit {
		last := matches[limit-1]
		token, err := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		if err != nil {
			return nil, nil, err
		}
		nextToken = &token
		matches = matches[:limit]
	}

	return matches, nextToken, nil
}

// unviewedBy scopes a query to matches userID has not acknowledged.
func unviewedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(
			"(user1_id = ? AND user1_viewed = ?) OR (user2_id = ? AND user2_viewed = ?)",
			userID, false, userID, false,
		)
	}
}

// ListUnviewed returns matches userID has not opened yet, newest first.
func (r *MatchRepository) ListUnviewed(ctx context.Context, userID string) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Scopes(unviewedBy(userID)).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// CountUnviewed returns how many matches userID has not opened yet.
// Used in conjunction with Redis cache (DB is fallback).
func (r *MatchRepository) CountUnviewed(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Scopes(unviewedBy(userID)).
		Count(&count).Error
	return count, err
}

// MarkViewed flips only userID's viewed flag on m.
func (r *MatchRepository) MarkViewed(ctx context.Context, m *db.Match, userID string) error {
	column := "user2_viewed"
	if m.User1ID == userID {
		column = "user1_viewed"
	}
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", m.ID).
		Update(column, true).Error
}

// DeleteWithSwipes removes the match together with both swipe rows of the
// pair and the match's messages.
//
// Behavior:
//   - Runs in one transaction: either everything is gone or nothing changed.
//   - Afterwards either user can swipe on the other again.
//
// Example:
//
//	repo.DeleteWithSwipes(ctx, m)
func (r *MatchRepository) DeleteWithSwipes(ctx context.Context, m *db.Match) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", m.ID).Delete(&db.Message{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("(swiper_id = ? AND swiped_id = ?) OR (swiper_id = ? AND swiped_id = ?)",
				m.User1ID, m.User2ID, m.User2ID, m.User1ID).
			Delete(&db.Swipe{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", m.ID).Delete(&db.Match{}).Error
	})
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
