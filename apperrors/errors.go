// Package apperrors holds the error taxonomy shared by the cart and review
// engines. Handlers branch on these sentinels with errors.Is and translate
// them to HTTP statuses; raw database errors never reach a response.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation covers bad input shape or range (user-correctable).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated covers requests without a valid identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden covers requests by the wrong owner.
	ErrForbidden = errors.New("permission denied")
	// ErrInsufficientStock is the business rule for over-requesting stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrProductInactive rejects cart additions of disabled products.
	ErrProductInactive = errors.New("product is not available")
	// ErrDuplicate covers a second review for the same (product, user).
	ErrDuplicate = errors.New("already exists")
	// ErrPersistence wraps any backing-store failure after rollback.
	ErrPersistence = errors.New("persistence failure")
)

// HTTPStatus maps a taxonomy error to its response status. Unknown errors
// are treated as persistence failures.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrProductInactive),
		errors.Is(err, ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
