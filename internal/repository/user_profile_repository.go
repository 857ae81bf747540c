package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type UserProfileRepository interface {
	//無ければ空のプロフィールを作って返す
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.UserProfile, error)
	Update(ctx context.Context, profile model.UserProfile) error
}
