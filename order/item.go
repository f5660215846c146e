/*
item.go - Quantity mutation and promo replay for one line item

PURPOSE:
  AddQuantity is the single write path for a line item. It appends the
  delta to the event log, recomputes the subtotal, replays the full
  history against every candidate promo, and settles on the authoritative
  discount.

WHY AN EVENT LOG:
  A promo that becomes valid mid-ticket (happy hour starts) retroactively
  applies to units already added inside its window, without losing the
  audit trail of who added what and when. Removals are negative deltas
  that shrink the eligible quantity on replay; nothing is ever deleted
  from the history.

ELIGIBLE QUANTITY:
  For each promo, the eligible quantity is the clamped sum of history
  deltas whose OWN timestamp falls inside the promo's validity window.
  That is "units added while the window was open, net of later removals",
  not merely units currently present.

CANDIDATE PROMOS:
  Only promos that are active AND valid right now are evaluated. A promo
  whose window has closed cannot discount even past-eligible units; a
  promo whose window just opened can retroactively discount old units.
  The history replay then decides how many units each candidate covers.

LAST WRITE WINS:
  At most one promo discount applies to a line item at a time: the most
  recently appended AppliedPromos entry is authoritative. Discounts are
  not summed across promos.

SEE ALSO:
  - types.go: Item, QuantityChange, AppliedPromo
  - promo/promo.go: IsValidAt, CalculateDiscount
*/
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tavolo/pos-engine/promo"
)

// AddQuantity appends a signed quantity delta at the given instant and
// recomputes the item's totals against the candidate promos.
//
// unitPrice is the menu item's current price; promos is the full promo set
// for the menu item (inactive ones are skipped here); now is the evaluation
// instant for current validity.
//
// A delta that would drive the quantity negative is rejected with
// *NegativeQuantityError and leaves the item untouched.
func (it *Item) AddQuantity(delta int, at time.Time, unitPrice decimal.Decimal, promos []promo.Promo, now time.Time) error {
	if it.Quantity+delta < 0 {
		return &NegativeQuantityError{ItemID: it.ID, Current: it.Quantity, Delta: delta}
	}

	it.QuantityHistory = append(it.QuantityHistory, QuantityChange{Quantity: delta, Timestamp: at})
	it.Quantity += delta
	it.Subtotal = unitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))

	it.reapplyPromos(unitPrice, promos, now)

	// The latest snapshot wins, capped at the subtotal and floored at zero.
	it.DiscountApplied = decimal.Zero
	if n := len(it.AppliedPromos); n > 0 {
		it.DiscountApplied = it.AppliedPromos[n-1].DiscountApplied
		if it.DiscountApplied.GreaterThan(it.Subtotal) {
			it.DiscountApplied = it.Subtotal
		}
	}
	it.Total = it.Subtotal.Sub(it.DiscountApplied)
	if it.Total.IsNegative() {
		it.Total = decimal.Zero
	}
	return nil
}

// reapplyPromos evaluates every currently valid promo against the history
// and updates the AppliedPromos snapshots.
func (it *Item) reapplyPromos(unitPrice decimal.Decimal, promos []promo.Promo, now time.Time) {
	for _, p := range promos {
		if !p.IsActive || !p.IsValidAt(now) {
			it.dropAppliedPromo(p.ID)
			continue
		}

		eligible := it.eligibleQuantity(p)
		discount := p.CalculateDiscount(eligible, unitPrice.Mul(decimal.NewFromInt(int64(eligible))), unitPrice)

		if discount.IsPositive() {
			it.AppliedPromos = append(it.AppliedPromos, AppliedPromo{
				PromoID:         p.ID,
				PromoName:       p.Name,
				Quantity:        eligible,
				DiscountApplied: discount,
				Timestamp:       now,
				Type:            string(p.Type),
			})
		} else {
			// The promo no longer covers anything; its snapshots go.
			it.dropAppliedPromo(p.ID)
		}
	}
}

// eligibleQuantity replays the history, counting only deltas whose own
// timestamp fell inside the promo's validity window. Clamped at 0.
func (it *Item) eligibleQuantity(p promo.Promo) int {
	sum := 0
	for _, c := range it.QuantityHistory {
		if p.IsValidAt(c.Timestamp) {
			sum += c.Quantity
		}
	}
	if sum < 0 {
		return 0
	}
	return sum
}

func (it *Item) dropAppliedPromo(promoID string) {
	kept := it.AppliedPromos[:0]
	for _, ap := range it.AppliedPromos {
		if ap.PromoID != promoID {
			kept = append(kept, ap)
		}
	}
	it.AppliedPromos = kept
}
