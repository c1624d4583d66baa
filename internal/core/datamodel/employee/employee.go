package employee

import "time"

type Employee struct {
	ID     int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"column:user_id;uniqueIndex;not null"`

	FirstName      string `gorm:"column:first_name;not null"`
	LastName       string `gorm:"column:last_name;not null"`
	Position       string `gorm:"column:position"`
	Department     string `gorm:"column:department;index"`
	PhotoURL       string `gorm:"column:photo_url"`
	Phone          string `gorm:"column:phone"`
	OfficeLocation string `gorm:"column:office_location"`

	Salary           *float64   `gorm:"column:salary"`
	DateOfBirth      *time.Time `gorm:"column:date_of_birth;type:date"`
	NationalID       *string    `gorm:"column:national_id"`
	BankAccount      *string    `gorm:"column:bank_account"`
	Address          *string    `gorm:"column:address"`
	EmergencyContact *string    `gorm:"column:emergency_contact"`
	HireDate         *time.Time `gorm:"column:hire_date;type:date"`
	ContractType     *string    `gorm:"column:contract_type"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
