package types

import (
	"time"

	"github.com/google/uuid"
)

// TestSession is one quiz attempt. A user may accumulate many sessions per
// quiz; the one with the highest id is the current attempt.
type TestSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_test_session_user_quiz" json:"user_id"`
	QuizID    uint      `gorm:"not null;index:idx_test_session_user_quiz" json:"quiz_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TestSession) TableName() string {
	return "test_session"
}
