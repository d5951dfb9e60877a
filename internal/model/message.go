package model

import "time"

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"not null;index" json:"thread_id"`
	Sender    string    `gorm:"size:16;not null" json:"sender"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
