package types

import "time"

type QuizQuestion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (QuizQuestion) TableName() string {
	return "quiz_question"
}
