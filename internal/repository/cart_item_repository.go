package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)
	// 数量は確定値で渡す。行が無ければ作る。
	SetQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error
	// 冪等。行が無くてもエラーにしない。
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
}
