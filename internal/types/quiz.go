package types

import "time"

// Semester, mode-of-study and year are stored as short codes; display labels
// live in the quiz service.
const (
	ModeOfStudyDaytime  = "daytime"
	ModeOfStudyEvening  = "evening"
	ModeOfStudyRemote   = "remote"
	ModeOfStudyExternal = "external"
)

type Quiz struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	Semester    string    `gorm:"size:2" json:"semester"`
	ModeOfStudy string    `gorm:"size:10" json:"mode_of_study"`
	Year        string    `gorm:"size:2" json:"year"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"-"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Quiz) TableName() string {
	return "quiz"
}
