package validator

import (
	"context"
	"regexp"
	"strings"

	"storefront/internal/repository"
	"storefront/internal/usecase"
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, username string, email string, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 必須チェック
	if username == "" {
		return usecase.NewValidationError("username", "required")
	}
	if email == "" {
		return usecase.NewValidationError("email", "required")
	}
	if password == "" {
		return usecase.NewValidationError("password", "required")
	}

	if len(username) < 3 || len(username) > 30 {
		return usecase.NewValidationError("username", "must be 3-30 characters")
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.NewValidationError("email", "invalid format")
	}

	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 {
		return usecase.NewValidationError("password", "must be at least 8 characters")
	}

	// username/email重複チェック（DBが必要）
	if u, err := v.users.FindByUsername(ctx, username); err == nil && u != nil {
		return usecase.NewValidationError("username", "already taken")
	}
	if u, err := v.users.FindByEmail(ctx, email); err == nil && u != nil {
		return usecase.NewValidationError("email", "already registered")
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return usecase.ErrValidation
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.ErrValidation
	}

	return nil
}

// パスワード変更の入力を検証
func (v *authValidator) ValidateChangePassword(ctx context.Context, oldPassword string, newPassword string) error {
	if oldPassword == "" {
		return usecase.NewValidationError("old_password", "required")
	}
	if newPassword == "" {
		return usecase.NewValidationError("new_password", "required")
	}
	if len(newPassword) < 8 {
		return usecase.NewValidationError("new_password", "must be at least 8 characters")
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
