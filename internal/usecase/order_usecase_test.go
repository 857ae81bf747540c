package usecase_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validPayment() usecase.PaymentInfo {
	return usecase.PaymentInfo{
		CardholderName:  "Taro Yamada",
		CardNumber:      "4111 1111 1111 1111",
		ExpiryDate:      "12/30",
		CVV:             "123",
		ShippingAddress: "1-2-3 Chiyoda, Tokyo",
	}
}

func TestPlaceOrder_PaymentValidation(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	cases := []struct {
		name   string
		mutate func(*usecase.PaymentInfo)
		field  string
	}{
		{"missing name", func(p *usecase.PaymentInfo) { p.CardholderName = "" }, "cardholder_name"},
		{"missing card", func(p *usecase.PaymentInfo) { p.CardNumber = "" }, "card_number"},
		{"short card", func(p *usecase.PaymentInfo) { p.CardNumber = "4111" }, "card_number"},
		{"letters in card", func(p *usecase.PaymentInfo) { p.CardNumber = "4111-abcd-1111-1111" }, "card_number"},
		{"missing address", func(p *usecase.PaymentInfo) { p.ShippingAddress = "" }, "shipping_address"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayment()
			tc.mutate(&p)

			_, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{Payment: p})

			var ve *usecase.ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	stub.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	stub.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10}, nil)
	stub.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	_, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{Payment: validPayment(), IdempotencyKey: "key-1"})
	assert.ErrorIs(t, err, usecase.ErrEmptyCart)
}

// 同じキーの注文が既にあれば、作らずに同じ結果を返す
func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	existing := model.Order{
		ID:     77,
		UserID: 1,
		Status: model.OrderStatusPending,
		Total:  decimal.NewFromInt(54),
	}
	stub.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(existing, true, nil)
	stub.orderItems.On("ListByOrderID", mock.Anything, int64(77)).Return([]model.OrderItem{}, nil)

	out, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{Payment: validPayment(), IdempotencyKey: "key-1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)

	stub.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	stub.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

// 在庫減算が効かなければOutOfStockで中断。注文もカートクリアも起きない。
func TestPlaceOrder_OutOfStockAborts(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	stub.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	stub.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10}, nil)
	stub.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{CartID: 10, ProductID: 5, Quantity: 2}}, nil)
	stub.products.On("FindByID", mock.Anything, int64(5)).Return(activeProduct(5, 100, 1), nil)
	stub.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(5), int64(2)).Return(false, nil)

	_, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{Payment: validPayment(), IdempotencyKey: "key-1"})

	var oos *usecase.OutOfStockError
	assert.ErrorAs(t, err, &oos)

	stub.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	stub.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	p := activeProduct(5, 20, 10)

	stub.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	stub.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10}, nil)
	stub.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{CartID: 10, ProductID: 5, Quantity: 2}}, nil)
	stub.products.On("FindByID", mock.Anything, int64(5)).Return(p, nil)
	stub.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(5), int64(2)).Return(true, nil)
	stub.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 &&
			o.Status == model.OrderStatusPending &&
			o.PaymentMethod == "credit_card" &&
			o.CardLast4 == "1111" &&
			o.Subtotal.Equal(decimal.NewFromInt(40))
	})).Return(int64(88), nil)
	stub.orderItems.On("CreateBulk", mock.Anything, int64(88), mock.Anything).Return(nil)
	stub.carts.On("Clear", mock.Anything, int64(10)).Return(nil)
	stub.carts.On("UpdateStatus", mock.Anything, int64(10), model.CartStatusCheckedOut).Return(nil)

	out, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{Payment: validPayment(), IdempotencyKey: "key-1"})
	assert.NoError(t, err)

	assert.Equal(t, int64(88), out.ID)
	assert.Equal(t, "PENDING", out.Status)
	// 小計40・税3.2・送料10
	assert.True(t, out.Tax.Equal(decimal.RequireFromString("3.2")), "tax=%s", out.Tax)
	assert.True(t, out.ShippingFee.Equal(decimal.NewFromInt(10)), "shipping=%s", out.ShippingFee)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("53.2")), "total=%s", out.Total)
	assert.Contains(t, out.TransactionID, "TXN-")

	// 明細は現在価格のスナップショット
	assert.Equal(t, 1, len(out.Items))
	assert.True(t, out.Items[0].Price.Equal(decimal.NewFromInt(20)))

	stub.orders.AssertExpectations(t)
	stub.carts.AssertExpectations(t)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	stub.orders.On("FindByID", mock.Anything, int64(88)).
		Return(model.Order{ID: 88, UserID: 1, Status: model.OrderStatusPaid}, nil)
	stub.orderItems.On("ListByOrderID", mock.Anything, int64(88)).Return([]model.OrderItem{
		{OrderID: 88, ProductID: 5, Quantity: 2},
		{OrderID: 88, ProductID: 6, Quantity: 1},
	}, nil)
	stub.inventory.On("IncreaseStock", mock.Anything, int64(5), int64(2)).Return(nil)
	stub.inventory.On("IncreaseStock", mock.Anything, int64(6), int64(1)).Return(nil)
	stub.orders.On("UpdateStatus", mock.Anything, int64(88), model.OrderStatusCancelled).Return(nil)

	out, err := uc.CancelOrder(ctx, 1, 88)
	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)

	stub.inventory.AssertExpectations(t)
	stub.orders.AssertExpectations(t)
}

func TestCancelOrder_ShippedIsInvalid(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	stub.orders.On("FindByID", mock.Anything, int64(88)).
		Return(model.Order{ID: 88, UserID: 1, Status: model.OrderStatusShipped}, nil)

	_, err := uc.CancelOrder(ctx, 1, 88)
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)

	stub.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

// 他人の注文は存在しない扱い
func TestCancelOrder_OtherUsersOrderNotFound(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	stub.orders.On("FindByID", mock.Anything, int64(88)).
		Return(model.Order{ID: 88, UserID: 2, Status: model.OrderStatusPending}, nil)

	_, err := uc.CancelOrder(ctx, 1, 88)
	assertErrContains(t, err, "not found")
}

func TestGetMyOrderDetail_OtherUsersOrderNotFound(t *testing.T) {
	ctx := context.Background()
	stub := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: stub})

	stub.orders.On("FindByID", mock.Anything, int64(88)).
		Return(model.Order{ID: 88, UserID: 2}, nil)

	_, err := uc.GetMyOrderDetail(ctx, 1, 88)
	assertErrContains(t, err, "not found")
}
