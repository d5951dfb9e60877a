package model

import "time"

// Extraction status of an uploaded document. A document stays pending until
// the extraction worker has processed it; failed documents keep empty content
// and are simply skipped during prompt assembly.
const (
	DocumentPending = "pending"
	DocumentReady   = "ready"
	DocumentFailed  = "failed"
)

type Document struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Data      []byte    `gorm:"type:longblob" json:"-"`
	Content   string    `gorm:"type:longtext" json:"-"`
	Status    string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
