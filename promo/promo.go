/*
Package promo implements promotional discount definitions and evaluation.

PURPOSE:
  A Promo targets one menu item and describes a discount (percentage,
  fixed amount per unit, or buy-X-get-Y) together with when it applies:
  optional absolute validity bounds, an "always" flag, and zero or more
  weekly recurrence windows.

KEY CONCEPTS:
  - Validity: IsValidAt answers "does this promo apply at instant T?".
    Bounds are checked first; then Always short-circuits; otherwise the
    recurrence rules are OR-combined - any matching rule is enough.
  - Discount math: CalculateDiscount is pure arithmetic over a quantity,
    its subtotal, and the unit price. It never returns a negative amount
    and never caps at the subtotal; capping is the caller's job because
    only the caller knows the authoritative subtotal.
  - Eligibility vs validity: the order ledger replays its quantity history
    against IsValidAt per historical timestamp. Promo itself is stateless.

DESIGN PRINCIPLES:
  1. Purity: no storage access, no clock access. Callers pass instants in.
  2. Precision: decimal.Decimal for all money, never float64.
  3. Fail-closed: a promo with Always=false and no matching rule is never
     eligible, regardless of its absolute bounds.

SEE ALSO:
  - recurrence.go: weekly window matching
  - order/item.go: history replay against promo validity
*/
package promo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROMO TYPES
// =============================================================================

type Type string

const (
	TypePercentage Type = "percentage_discount" // percentage off the subtotal
	TypePrice      Type = "price_discount"      // fixed amount off per unit
	TypeBuyXGetY   Type = "buy_x_get_y"         // every X units, pay for Y
)

// Promo is a discount definition for one menu item.
type Promo struct {
	ID         string
	MenuItemID string
	Name       string
	Type       Type

	// Percentage is required for TypePercentage (0-100).
	Percentage decimal.Decimal
	// Discount is the currency amount per unit, required for TypePrice.
	Discount decimal.Decimal
	// BuyQuantity/PayQuantity drive TypeBuyXGetY. BuyQuantity must exceed
	// PayQuantity; the difference is the free units per completed cycle.
	BuyQuantity int
	PayQuantity int

	// Absolute validity bounds, inclusive. Nil means unbounded.
	StartDate *time.Time
	EndDate   *time.Time

	// Always bypasses recurrence rules entirely.
	Always bool
	// IsActive is the soft-enable flag; inactive promos are never evaluated.
	IsActive bool

	Rules []RecurrenceRule
}

// =============================================================================
// VALIDITY
// =============================================================================

// IsValidAt reports whether the promo applies at instant t.
// Absolute bounds always win; within bounds, Always short-circuits the
// recurrence rules, which are otherwise OR-combined.
func (p Promo) IsValidAt(t time.Time) bool {
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.After(*p.EndDate) {
		return false
	}
	if p.Always {
		return true
	}
	for _, r := range p.Rules {
		if r.IsWithin(t) {
			return true
		}
	}
	return false
}

// =============================================================================
// DISCOUNT MATH
// =============================================================================

// CalculateDiscount computes the discount for quantity units whose combined
// price is subtotal. The result is never negative. Callers cap at their own
// authoritative subtotal.
func (p Promo) CalculateDiscount(quantity int, subtotal, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch p.Type {
	case TypePercentage:
		discount = subtotal.Mul(p.Percentage).Div(decimal.NewFromInt(100))
	case TypePrice:
		discount = p.Discount.Mul(decimal.NewFromInt(int64(quantity)))
	case TypeBuyXGetY:
		if p.BuyQuantity <= 0 {
			return decimal.Zero
		}
		// Only completed cycles earn free units.
		cycles := quantity / p.BuyQuantity
		freeUnits := cycles * (p.BuyQuantity - p.PayQuantity)
		discount = unitPrice.Mul(decimal.NewFromInt(int64(freeUnits)))
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the promo definition. Returns a *ValidationError describing
// the first problem found.
func (p Promo) Validate() error {
	if p.MenuItemID == "" {
		return &ValidationError{Field: "menuItemId", Message: "menu item is required"}
	}
	switch p.Type {
	case TypePercentage:
		if p.Percentage.LessThanOrEqual(decimal.Zero) || p.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			return &ValidationError{Field: "percentage", Message: "percentage must be in (0, 100]"}
		}
	case TypePrice:
		if p.Discount.LessThanOrEqual(decimal.Zero) {
			return &ValidationError{Field: "discount", Message: "discount amount must be positive"}
		}
	case TypeBuyXGetY:
		if p.PayQuantity <= 0 {
			return &ValidationError{Field: "pay_quantity", Message: "pay quantity must be positive"}
		}
		if p.BuyQuantity <= p.PayQuantity {
			return &ValidationError{Field: "buy_quantity", Message: "buy quantity must exceed pay quantity"}
		}
	default:
		return &ValidationError{Field: "type", Message: "unknown promo type"}
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return &ValidationError{Field: "endDate", Message: "end date before start date"}
	}
	for _, r := range p.Rules {
		if err := r.validate(); err != nil {
			return &ValidationError{Field: "recurrenceRules", Message: err.Error()}
		}
	}
	return nil
}

// =============================================================================
// STORAGE PORT
// =============================================================================

// Store is the persistence capability the promo domain needs.
// Implementations live in store/sqlite and store/memory.
type Store interface {
	// PromosForMenuItem returns every promo targeting the menu item,
	// recurrence rules included. Active and inactive alike; callers filter.
	PromosForMenuItem(ctx context.Context, menuItemID string) ([]Promo, error)

	GetPromo(ctx context.Context, id string) (*Promo, error)
	ListPromos(ctx context.Context) ([]Promo, error)
	SavePromo(ctx context.Context, p Promo) error
	// DeletePromo removes the promo and cascade-deletes its recurrence rules.
	DeletePromo(ctx context.Context, id string) error
}
