package model

import "time"

// ユーザー1人につき1行
type UserProfile struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone     string    `gorm:"type:varchar(15)" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	City      string    `gorm:"type:varchar(100)" json:"city"`
	State     string    `gorm:"type:varchar(100)" json:"state"`
	ZipCode   string    `gorm:"type:varchar(10)" json:"zip_code"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
