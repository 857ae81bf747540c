package model

import "time"

// 商品レビュー。同じ(user, product)の組は1件まで。
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index;uniqueIndex:idx_product_user" json:"product_id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:idx_product_user" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
