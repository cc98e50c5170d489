package types

import "time"

// TestAnswer binds a session to a presented question. A row is created the
// moment the question is shown, so id order is presentation order;
// SelectedOptionID stays nil until the user answers.
type TestAnswer struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SessionID        uint      `gorm:"not null;index;index:idx_test_answer_session_question" json:"session_id"`
	QuestionID       uint      `gorm:"not null;index:idx_test_answer_session_question" json:"question_id"`
	SelectedOptionID *uint     `gorm:"index" json:"selected_option_id,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TestAnswer) TableName() string {
	return "test_answer"
}
