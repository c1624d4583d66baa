package account

import "time"

// Account is read through sqlx (db tags) and created by gorm AutoMigrate in
// sqlite development mode (gorm tags).
type Account struct {
	ID           int64     `db:"id" gorm:"primaryKey"`
	Username     string    `db:"username" gorm:"column:username;uniqueIndex;not null"`
	Email        string    `db:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `db:"password_hash" gorm:"column:password_hash;not null"`
	Role         string    `db:"role" gorm:"column:role;not null"`
	IsActive     bool      `db:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `db:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
