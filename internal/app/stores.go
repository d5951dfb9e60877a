package app

import (
	"context"
	"time"

	"docuchat/internal/model"
)

// Persistence and collaborator contracts consumed by the services. The gorm
// repositories satisfy the store interfaces; tests swap in in-memory fakes.

type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
}

type ThreadStore interface {
	Create(thread *model.Thread) error
	ListByUserID(userID uint) ([]model.Thread, error)
	GetByIDAndUserID(threadID, userID uint) (*model.Thread, error)
	DeleteByIDAndUserID(threadID, userID uint) error
}

type MessageStore interface {
	Create(message *model.Message) error
	ListByThreadID(threadID uint) ([]model.Message, error)
	DeleteByThreadID(threadID uint) error
}

type DocumentStore interface {
	Create(doc *model.Document) error
	ListByUserID(userID uint) ([]model.Document, error)
	GetByIDAndUserID(id, userID uint) (*model.Document, error)
	GetByID(id uint) (*model.Document, error)
	UpdateExtraction(id uint, content, status string) error
	DeleteByIDAndUserID(id, userID uint) error
}

// ReplyGenerator is the external LLM behind the chat turn.
type ReplyGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type HistoryCache interface {
	GetHistory(ctx context.Context, threadID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, threadID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, threadID uint) error
	MarkDirty(ctx context.Context, threadID uint) error
	IsDirty(ctx context.Context, threadID uint) (bool, error)
}

type ExtractJobPublisher interface {
	Publish(ctx context.Context, job model.ExtractJob) error
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
