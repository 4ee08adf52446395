package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes; wrap with fmt.Errorf("%w: detail") for per-item context.
var (
	ErrAccountNotFound      = errors.New("user not found")
	ErrCartNotFound         = errors.New("cart not found")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidAddress          = errors.New("invalid address ID")
	ErrShippingAddressRequired = errors.New("shipping address is required")
	ErrNoMatchingItems         = errors.New("no matching products found in cart")
	ErrNoItems                 = errors.New("no items to add")
	ErrInvalidQuantity         = errors.New("quantity must be at least 1")

	ErrProductUnavailable = errors.New("product is unavailable")
	ErrSellerUnavailable  = errors.New("seller is unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")

	ErrNotOrderSeller   = errors.New("order does not contain your products")
	ErrNotOrderOwner    = errors.New("order does not belong to you")
	ErrOrderNotPending  = errors.New("order can only be cancelled while processing")
	ErrAlreadyCancelled = errors.New("order is already cancelled")

	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)
