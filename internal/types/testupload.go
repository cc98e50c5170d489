package types

import (
	"time"

	"github.com/google/uuid"
)

// TestUpload is the audit row written after a successful bulk import.
type TestUpload struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FileName      string    `gorm:"size:255;not null" json:"file_name"`
	CategoryID    uint      `gorm:"not null;index" json:"category_id"`
	QuizID        uint      `gorm:"not null;index" json:"quiz_id"`
	AuthorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	QuestionCount int       `gorm:"not null;default:0" json:"question_count"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TestUpload) TableName() string {
	return "test_upload"
}
