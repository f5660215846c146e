/*
errors.go - Centralized error types for the order engine

ERROR CATEGORIES:
  1. Not-found errors - unknown order / line item / menu item ids
  2. State errors - mutations against cancelled orders or below-zero quantity

Stock failures are defined in the inventory package; the API layer
classifies all of them together.
*/
package order

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is behind every *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrOrderCancelled is returned when mutating items of a cancelled order.
	ErrOrderCancelled = errors.New("order is cancelled")

	// ErrNegativeQuantity is returned when a delta would drive an item's
	// quantity below zero. The original system clamped silently; this
	// implementation rejects the caller bug explicitly.
	ErrNegativeQuantity = errors.New("quantity would go negative")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// NotFoundError reports an unknown order, order item, menu item or promo.
type NotFoundError struct {
	Kind string // "order", "order item", "menu item"
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NegativeQuantityError carries the offending delta for diagnostics.
type NegativeQuantityError struct {
	ItemID  string
	Current int
	Delta   int
}

func (e *NegativeQuantityError) Error() string {
	return fmt.Sprintf("item %s: quantity %d%+d would go negative", e.ItemID, e.Current, e.Delta)
}

func (e *NegativeQuantityError) Unwrap() error { return ErrNegativeQuantity }
