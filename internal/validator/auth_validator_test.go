package validator

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestValidateRegister(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		field    string
	}{
		{"missing username", "", "a@example.com", "password123", "username"},
		{"short username", "ab", "a@example.com", "password123", "username"},
		{"missing email", "taro", "", "password123", "email"},
		{"bad email", "taro", "not-an-email", "password123", "email"},
		{"short password", "taro", "a@example.com", "short", "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewAuthValidator(new(userRepoMock))

			err := v.ValidateRegister(ctx, tc.username, tc.email, tc.password)

			var ve *usecase.ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestValidateRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users := new(userRepoMock)
	v := NewAuthValidator(users)

	users.On("FindByUsername", mock.Anything, "taro").Return(&model.User{ID: 1, Username: "taro"}, nil)

	err := v.ValidateRegister(ctx, "taro", "new@example.com", "password123")

	var ve *usecase.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "username", ve.Field)
}

func TestValidateRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := new(userRepoMock)
	v := NewAuthValidator(users)

	users.On("FindByUsername", mock.Anything, "taro").Return(nil, nil)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{ID: 1}, nil)

	err := v.ValidateRegister(ctx, "taro", "taro@example.com", "password123")

	var ve *usecase.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestValidateRegister_OK(t *testing.T) {
	ctx := context.Background()
	users := new(userRepoMock)
	v := NewAuthValidator(users)

	users.On("FindByUsername", mock.Anything, "taro").Return(nil, nil)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, nil)

	err := v.ValidateRegister(ctx, "taro", "taro@example.com", "password123")
	assert.NoError(t, err)
}

func TestValidateLogin(t *testing.T) {
	v := NewAuthValidator(new(userRepoMock))
	ctx := context.Background()

	assert.True(t, errors.Is(v.ValidateLogin(ctx, "", "password"), usecase.ErrValidation))
	assert.True(t, errors.Is(v.ValidateLogin(ctx, "not-an-email", "password"), usecase.ErrValidation))
	assert.True(t, errors.Is(v.ValidateLogin(ctx, "a@example.com", ""), usecase.ErrValidation))
	assert.NoError(t, v.ValidateLogin(ctx, "a@example.com", "password"))
}

func TestValidateChangePassword(t *testing.T) {
	v := NewAuthValidator(new(userRepoMock))
	ctx := context.Background()

	var ve *usecase.ValidationError

	assert.ErrorAs(t, v.ValidateChangePassword(ctx, "", "new-password"), &ve)
	assert.ErrorAs(t, v.ValidateChangePassword(ctx, "old-password", "short"), &ve)
	assert.NoError(t, v.ValidateChangePassword(ctx, "old-password", "new-password"))
}
