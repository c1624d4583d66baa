package absence

import "time"

type Absence struct {
	ID         int64      `gorm:"primaryKey"`
	EmployeeID int64      `gorm:"column:employee_id;not null;index"`
	StartDate  time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate    time.Time  `gorm:"column:end_date;type:date;not null"`
	Type       string     `gorm:"column:absence_type;not null"`
	Reason     string     `gorm:"column:reason;size:1000"`
	Status     string     `gorm:"column:status;not null;default:pending;index"`
	ApprovedBy *int64     `gorm:"column:approved_by"`
	ApprovedAt *time.Time `gorm:"column:approved_at"`
	Version    int        `gorm:"column:version;not null;default:1"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Absence) TableName() string {
	return "absences"
}
