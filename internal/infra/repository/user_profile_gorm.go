package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type UserProfileGormRepository struct {
	db *gorm.DB
}

// DI
func NewUserProfileGormRepository(db *gorm.DB) *UserProfileGormRepository {
	return &UserProfileGormRepository{db: db}
}

// プロフィールを取得し、無ければ空で作成
func (r *UserProfileGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.UserProfile, error) {
	var profile model.UserProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Where("user_id = ?", userID).
			First(&profile).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		now := time.Now()
		newProfile := model.UserProfile{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newProfile).Error; err != nil {
			//同時作成で負けたら読み直す
			retryErr := tx.Where("user_id = ?", userID).First(&profile).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		profile = newProfile
		return nil
	})

	if err != nil {
		return model.UserProfile{}, err
	}
	return profile, nil
}

func (r *UserProfileGormRepository) Update(ctx context.Context, profile model.UserProfile) error {
	res := r.db.WithContext(ctx).Model(&model.UserProfile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"phone":    profile.Phone,
		"address":  profile.Address,
		"city":     profile.City,
		"state":    profile.State,
		"zip_code": profile.ZipCode,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
