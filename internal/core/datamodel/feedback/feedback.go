package feedback

import "time"

type Feedback struct {
	ID              int64     `gorm:"primaryKey"`
	EmployeeID      int64     `gorm:"column:employee_id;not null;index"`
	AuthorID        int64     `gorm:"column:author_id;not null;index"`
	AuthorName      string    `gorm:"column:author_name;not null"`
	OriginalContent string    `gorm:"column:original_content;size:2000"`
	PolishedContent *string   `gorm:"column:polished_content;size:2000"`
	IsPolished      bool      `gorm:"column:is_polished;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
