package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// 遷移表。一方通行で、同じ状態には戻らない。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// 終端状態（DELIVERED / CANCELLED）か
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0 && s.Valid()
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// チェックアウト時点のカートのスナップショット。作成後は金額を変更しない。
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64           `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"shipping_fee"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentMethod   string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	TransactionID   string          `gorm:"type:varchar(100);not null" json:"transaction_id"`
	CardLast4       string          `gorm:"type:varchar(4)" json:"card_last4"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address"`
	IdempotencyKey  string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
