package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docuchat/internal/model"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

func (r *ThreadRepository) Create(thread *model.Thread) error {
	if err := r.db.Create(thread).Error; err != nil {
		return fmt.Errorf("create thread failed: %w", err)
	}
	return nil
}

func (r *ThreadRepository) ListByUserID(userID uint) ([]model.Thread, error) {
	var threads []model.Thread
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&threads).Error; err != nil {
		return nil, fmt.Errorf("list threads failed: %w", err)
	}
	return threads, nil
}

func (r *ThreadRepository) GetByIDAndUserID(threadID, userID uint) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.Where("id = ? AND user_id = ?", threadID, userID).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get thread failed: %w", err)
	}
	return &thread, nil
}

func (r *ThreadRepository) DeleteByIDAndUserID(threadID, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", threadID, userID).Delete(&model.Thread{}).Error; err != nil {
		return fmt.Errorf("delete thread failed: %w", err)
	}
	return nil
}
