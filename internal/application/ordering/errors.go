package ordering

import "github.com/shopdesk/backend/internal/domain/shared"

// Business-rule rejections surfaced by the checkout and reconciliation flows.
// Each rejection leaves every store untouched.
var (
	ErrEmptyCart    = shared.NewDomainError("EMPTY_CART", "Cart has no items")
	ErrZeroQuantity = shared.NewDomainError("ZERO_QUANTITY", "Cart contains a zero quantity entry")
	ErrItemsLocked  = shared.NewDomainError("ITEMS_LOCKED", "Line items can only be changed while the order status is New; revert the status first")
)
