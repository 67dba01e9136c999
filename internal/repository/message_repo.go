package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/db"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

func (r *MessageRepository) Create(ctx context.Context, m *db.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListByMatch returns the conversation in insertion order.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID string) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flags every message of matchID addressed to receiverID as read
// and returns how many rows changed.
func (r *MessageRepository) MarkRead(ctx context.Context, matchID, receiverID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("match_id = ? AND receiver_id = ? AND is_read = ?", matchID, receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
