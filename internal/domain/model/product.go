package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string              `gorm:"type:varchar(200);not null" json:"name"`
	Slug        string              `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug"`
	CategoryID  int64               `gorm:"not null;index" json:"category_id"`
	Description string              `gorm:"type:text" json:"description"`
	Price       decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"sale_price"`
	Image       string              `gorm:"type:varchar(255)" json:"image"`
	Stock       int64               `gorm:"not null" json:"stock"`
	IsFeatured  bool                `gorm:"not null;default:false" json:"is_featured"`
	IsActive    bool                `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
}

// セール価格が設定されていればそちらを販売価格にする
func (p Product) CurrentPrice() decimal.Decimal {
	if p.SalePrice.Valid && p.SalePrice.Decimal.IsPositive() {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// 割引率（%、切り捨て）
func (p Product) DiscountPercent() int {
	if !p.SalePrice.Valid || p.Price.IsZero() {
		return 0
	}
	if !p.Price.GreaterThan(p.SalePrice.Decimal) {
		return 0
	}
	d := p.Price.Sub(p.SalePrice.Decimal).
		Div(p.Price).
		Mul(decimal.NewFromInt(100))
	return int(d.IntPart())
}
