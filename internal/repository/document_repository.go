package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docuchat/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's documents newest first, with extracted
// content but without the raw blob. Use GetByIDAndUserID for the blob.
func (r *DocumentRepository) ListByUserID(userID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.
		Select("id", "user_id", "name", "content", "status", "created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) GetByIDAndUserID(id, userID uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

// GetByID loads a document including its blob; used by the extraction worker,
// which is not scoped to a user.
func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by id failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) UpdateExtraction(id uint, content, status string) error {
	err := r.db.Model(&model.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"content": content, "status": status}).Error
	if err != nil {
		return fmt.Errorf("update document extraction failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) DeleteByIDAndUserID(id, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Document{}).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}
