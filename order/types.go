/*
Package order implements the order-item promotion and mutation engine.

PURPOSE:
  This is the centerpiece of the system. Every quantity change made to a
  line item on an open order is recorded as a timestamped event; the event
  log is replayed against promo validity windows to derive the currently
  eligible discount; and totals are recomputed on every change.

KEY CONCEPTS IN THIS FILE (types.go):
  - QuantityChange: one signed delta with its timestamp. Append-only.
  - AppliedPromo: one discount snapshot from a recompute. Newer entries
    supersede older ones; only the most recent is authoritative.
  - Item: one line item of one order, owning its history and snapshots.
  - Order: the aggregate summing its items' totals.

PERSISTED SHAPE:
  QuantityHistory and AppliedPromos are stored as JSON text columns. The
  json tags below are a compatibility contract with existing rows - do not
  rename them.

DESIGN PRINCIPLES:
  1. Immutability: history entries are never edited or reordered. Removals
     are negative deltas, not deletions.
  2. Derivation: Quantity, Subtotal, DiscountApplied and Total are always
     reproducible by replaying the history.
  3. Precision: decimal.Decimal for money, int for unit counts.

SEE ALSO:
  - item.go: AddQuantity and the promo replay
  - service.go: orchestration, locking, stock reservation
*/
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENT LOG ENTRIES
// =============================================================================

// QuantityChange is one signed quantity delta on a line item.
type QuantityChange struct {
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// AppliedPromo is one discount snapshot recorded during a recompute.
// Quantity is the eligible quantity the discount was computed from.
type AppliedPromo struct {
	PromoID         string          `json:"promoId"`
	PromoName       string          `json:"promoName"`
	Quantity        int             `json:"quantity"`
	DiscountApplied decimal.Decimal `json:"discountApplied"`
	Timestamp       time.Time       `json:"timestamp"`
	Type            string          `json:"type"`
}

// =============================================================================
// LINE ITEM LEDGER
// =============================================================================

// Item is one line item of one order: a menu item reference plus the full
// mutation history and the derived totals.
type Item struct {
	ID         string
	OrderID    string
	MenuItemID string
	Comments   string

	// Quantity is the current unit count, always equal to the clamped sum
	// of QuantityHistory deltas.
	Quantity int

	// QuantityHistory is append-only. Entries are never mutated after
	// insertion; chronological replay derives everything else.
	QuantityHistory []QuantityChange

	// AppliedPromos accumulates one entry per positive discount evaluation.
	// The most recently appended entry is the authoritative discount;
	// earlier entries remain as audit trail. Entries for a promo whose
	// discount drops to zero are removed.
	AppliedPromos []AppliedPromo

	Subtotal        decimal.Decimal
	DiscountApplied decimal.Decimal
	Total           decimal.Decimal
}

// NewItem creates an empty ledger for a menu item just added to an order.
// Quantity starts at 0; the first AddQuantity records the opening delta.
func NewItem(id, orderID, menuItemID, comments string) *Item {
	return &Item{
		ID:         id,
		OrderID:    orderID,
		MenuItemID: menuItemID,
		Comments:   comments,
	}
}

// ReplayQuantity re-derives the current quantity from the history: the sum
// of all deltas, floored at 0. It must always equal Quantity.
func (it *Item) ReplayQuantity() int {
	sum := 0
	for _, c := range it.QuantityHistory {
		sum += c.Quantity
	}
	if sum < 0 {
		return 0
	}
	return sum
}

// =============================================================================
// ORDER AGGREGATE
// =============================================================================

type Status string

const (
	StatusOpen      Status = "open"
	StatusCancelled Status = "cancelled"
)

// Order sums its line items. It carries no logic beyond aggregation.
type Order struct {
	ID           string
	Status       Status
	CancelReason string
	CreatedAt    time.Time

	Subtotal        decimal.Decimal
	DiscountApplied decimal.Decimal
	Total           decimal.Decimal
}

// Recalculate re-sums the order's totals from its items.
func (o *Order) Recalculate(items []Item) {
	o.Subtotal = decimal.Zero
	o.DiscountApplied = decimal.Zero
	o.Total = decimal.Zero
	for _, it := range items {
		o.Subtotal = o.Subtotal.Add(it.Subtotal)
		o.DiscountApplied = o.DiscountApplied.Add(it.DiscountApplied)
		o.Total = o.Total.Add(it.Total)
	}
}
