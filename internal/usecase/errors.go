package usecase

import (
	"errors"
	"fmt"
)

// リクエスト境界でユーザー向けメッセージに変換される業務エラー。
var (
	//カートが空のまま注文しようとした
	ErrEmptyCart = errors.New("cart is empty")
	//注文ステータスの遷移が許可されていない
	ErrInvalidTransition = errors.New("invalid status transition")
	//同じ(user, product)のレビューが既にある
	ErrDuplicateReview = errors.New("product already reviewed")
	//評価が1〜5の範囲外
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// 在庫不足。どの商品が足りないかを必ず伝える。
type OutOfStockError struct {
	ProductName string
	Available   int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("only %d %s available in stock", e.Available, e.ProductName)
}

// フォーム項目単位の入力エラー。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 認証まわりの共通エラー
var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403 権限
	ErrForbidden = errors.New("forbidden")
	//409 競合
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)
