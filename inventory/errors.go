/*
errors.go - Typed stock failures

Both reservation failures carry the full offending stock items so the API
layer can hand the client everything it needs to display the problem.
Sentinels allow errors.Is checks without losing the detail.
*/
package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInsufficientStock is returned when a reservation would drive a
	// stock item negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInactiveIngredient is returned when a required stock item is
	// disabled.
	ErrInactiveIngredient = errors.New("inactive ingredient")
)

// =============================================================================
// STRUCTURED ERRORS - Carry detail for the client
// =============================================================================

// Shortage is one stock item that cannot cover a reservation, with the
// amount the reservation needed.
type Shortage struct {
	StockItem StockItem
	Required  decimal.Decimal
}

// InsufficientStockError lists every shortage found during evaluation.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d ingredient(s)", len(e.Shortages))
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InactiveIngredientError lists every disabled stock item the menu item needs.
type InactiveIngredientError struct {
	Items []StockItem
}

func (e *InactiveIngredientError) Error() string {
	return fmt.Sprintf("%d ingredient(s) inactive", len(e.Items))
}

func (e *InactiveIngredientError) Unwrap() error { return ErrInactiveIngredient }

// NotFoundError reports a dangling reference (ingredient pointing at a
// missing stock item).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
