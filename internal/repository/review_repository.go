package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 平均評価と件数
type ReviewRating struct {
	Average float64
	Count   int64
}

type ReviewRepository interface {
	Create(ctx context.Context, rv model.Review) (model.Review, error)
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)
	//(user, product)で既にレビュー済みか
	ExistsByProductAndUser(ctx context.Context, productID int64, userID int64) (bool, error)
	//新しい順
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	RatingByProductID(ctx context.Context, productID int64) (ReviewRating, error)

	Update(ctx context.Context, rv model.Review) error
	Delete(ctx context.Context, reviewID int64) error
}
