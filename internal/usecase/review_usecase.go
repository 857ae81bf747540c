package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
	auditRepo   repo.AuditLogRepository
}

// DI
func NewReviewUsecase(
	reviewRepo repo.ReviewRepository,
	productRepo repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		auditRepo:   auditRepo,
	}
}

type AddReviewInput struct {
	Rating  int
	Comment string
}

type ReviewListOutput struct {
	Items   []model.Review `json:"items"`
	Average float64        `json:"average_rating"`
	Count   int64          `json:"review_count"`
}

// AddReview は1商品につき1ユーザー1件まで。
func (u *ReviewUsecase) AddReview(ctx context.Context, userID int64, productID int64, in AddReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Review{}, NewValidationError("product_id", "invalid product id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, ErrInvalidRating
	}

	//商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	exists, err := u.reviewRepo.ExistsByProductAndUser(ctx, productID, userID)
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Review{}, ErrDuplicateReview
	}

	now := time.Now()
	rv, err := u.reviewRepo.Create(ctx, model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		//同時投稿でunique制約に当たった場合も重複扱い
		return model.Review{}, ErrDuplicateReview
	}
	return rv, nil
}

// UpdateReview は投稿者本人のみ。
func (u *ReviewUsecase) UpdateReview(ctx context.Context, userID int64, reviewID int64, in AddReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if reviewID <= 0 {
		return model.Review{}, NewValidationError("review_id", "invalid review id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, ErrInvalidRating
	}

	rv, err := u.reviewRepo.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人のレビューは「存在しない扱い」にする
	if rv.UserID != userID {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	rv.Rating = in.Rating
	rv.Comment = strings.TrimSpace(in.Comment)

	if err := u.reviewRepo.Update(ctx, rv); err != nil {
		if err == repo.ErrNotFound {
			return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rv, nil
}

// 新しい順の一覧＋平均評価
func (u *ReviewUsecase) ListProductReviews(ctx context.Context, productID int64) (ReviewListOutput, error) {
	if productID <= 0 {
		return ReviewListOutput{}, NewValidationError("product_id", "invalid product id")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return ReviewListOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ReviewListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return ReviewListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rating, err := u.reviewRepo.RatingByProductID(ctx, productID)
	if err != nil {
		return ReviewListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ReviewListOutput{
		Items:   items,
		Average: rating.Average,
		Count:   rating.Count,
	}, nil
}

// 管理者によるレビュー削除（モデレーション）。監査ログを残す。
func (u *ReviewUsecase) AdminDeleteReview(ctx context.Context, adminUserID int64, reviewID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if reviewID <= 0 {
		return NewValidationError("review_id", "invalid review id")
	}

	rv, err := u.reviewRepo.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.reviewRepo.Delete(ctx, reviewID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	beforeJSON := fmt.Sprintf(`{"product_id":%d,"user_id":%d,"rating":%d}`, rv.ProductID, rv.UserID, rv.Rating)
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionDeleteReview,
		ResourceType: model.AuditResourceReview,
		ResourceID:   reviewID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    `{}`,
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
