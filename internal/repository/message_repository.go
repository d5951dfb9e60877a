package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docuchat/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

// ListByThreadID returns the full transcript of a thread, oldest first.
// ID breaks ties between messages persisted within the same clock tick.
func (r *MessageRepository) ListByThreadID(threadID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("thread_id = ?", threadID).Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) DeleteByThreadID(threadID uint) error {
	if err := r.db.Where("thread_id = ?", threadID).Delete(&model.Message{}).Error; err != nil {
		return fmt.Errorf("delete messages failed: %w", err)
	}
	return nil
}
