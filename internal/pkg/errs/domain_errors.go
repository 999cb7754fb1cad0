package errs

import "errors"

// Domain-specific sentinel errors for the economy engine usecase layers
var (
	// Input validation
	ErrInvalidInput = errors.New("invalid input")

	// Store item errors
	ErrItemNotFound = errors.New("store item not found")
	ErrItemInactive = errors.New("store item inactive")
	ErrSoldOut      = errors.New("store item sold out")

	// Purchase / redemption errors
	ErrPurchaseNotFound    = errors.New("purchase not found")
	ErrAlreadyRedeemed     = errors.New("purchase already redeemed")
	ErrPurchaseExpired     = errors.New("purchase expired")
	ErrInsufficientBalance = errors.New("insufficient coin balance")

	// Spin wheel errors
	ErrWheelNotFound   = errors.New("reward wheel not found")
	ErrNoActiveRewards = errors.New("no active rewards on wheel")

	// Operation errors
	ErrConcurrencyConflict     = errors.New("concurrent modification conflict")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
