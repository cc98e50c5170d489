package types

import (
	"time"

	"github.com/google/uuid"
)

// QuizOrder is the entitlement record: at least one row for a quiz unlocks
// its questions. No quantity or expiry semantics.
type QuizOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (QuizOrder) TableName() string {
	return "quiz_order"
}
