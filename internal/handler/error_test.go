package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", usecase.NewValidationError("quantity", "quantity must be >= 1"), http.StatusBadRequest},
		{"out of stock", &usecase.OutOfStockError{ProductName: "Coffee", Available: 2}, http.StatusBadRequest},
		{"empty cart", usecase.ErrEmptyCart, http.StatusBadRequest},
		{"invalid rating", usecase.ErrInvalidRating, http.StatusBadRequest},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden},
		{"duplicate review", usecase.ErrDuplicateReview, http.StatusConflict},
		{"invalid transition", usecase.ErrInvalidTransition, http.StatusConflict},
		{"http error passthrough", usecase.NewHTTPError(http.StatusNotFound, "not found"), http.StatusNotFound},
		{"unknown is 500", errUnexpected, http.StatusInternalServerError},
	}

	e := echo.New()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := writeError(c, tc.err)
			assert.NoError(t, err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

// 想定外のエラーは詳細を漏らさない
func TestWriteError_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := writeError(c, errUnexpected)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

var errUnexpected = errString("connection refused to db-primary:5432")

type errString string

func (e errString) Error() string { return string(e) }
