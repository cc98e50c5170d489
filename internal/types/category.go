package types

import "time"

// Category is a two-level taxonomy: rows with a nil parent are degrees,
// their children are fields. Quizzes attach to fields only.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:250;not null" json:"name"`
	Slug      string    `gorm:"size:250;uniqueIndex;not null" json:"slug"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Parent    *Category `gorm:"foreignKey:ParentID" json:"-"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Category) TableName() string {
	return "category"
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
