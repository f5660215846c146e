/*
Package inventory keeps the stock ledger consistent with order mutations.

PURPOSE:
  Every quantity change on an order item consumes (or releases) stock for
  each ingredient of the menu item. The Ledger validates a whole change
  before touching anything: inactive ingredients and insufficient stock
  reject the mutation outright, with enough detail for the client to show
  what is missing.

ALL-OR-NOTHING:
  Reserve evaluates every ingredient of the menu item first and only then
  applies the adjustments. A menu item short on one of two ingredients
  leaves both untouched.

DIRECTION:
  A positive delta consumes stock; a negative delta (removing units from an
  order) restores it. Only positive deltas can fail on stock level -
  restoring can never drive stock negative.

LOW STOCK:
  Dropping below MinStock is advisory. Reserve reports the items that ended
  up low so the caller can surface a warning, but never blocks on it.

SEE ALSO:
  - order/service.go: runs Reserve inside the per-order transaction
  - store/sqlite: persistence of stock items and ingredients
*/
package inventory

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TYPES
// =============================================================================

// StockItem is one tracked ingredient supply. Stock may be fractional
// (kilograms, liters), hence decimal.
type StockItem struct {
	ID       string
	Name     string
	Unit     string
	Stock    decimal.Decimal
	MinStock decimal.Decimal
	IsActive bool
}

// Ingredient binds a menu item to a stock item: selling one unit of the menu
// item consumes QuantityUsed of the stock item.
type Ingredient struct {
	ID           string
	MenuItemID   string
	StockItemID  string
	QuantityUsed decimal.Decimal
}

// =============================================================================
// STORAGE PORT
// =============================================================================

type Store interface {
	IngredientsForMenuItem(ctx context.Context, menuItemID string) ([]Ingredient, error)
	GetStockItem(ctx context.Context, id string) (*StockItem, error)
	ListStockItems(ctx context.Context) ([]StockItem, error)
	SaveStockItem(ctx context.Context, s StockItem) error
	SaveIngredient(ctx context.Context, ing Ingredient) error
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger performs stock reservations against a Store. Construct it over the
// transactional store view so check and apply happen atomically.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Reserve adjusts stock for a quantity change of delta units of menuItemID.
// It evaluates every ingredient before mutating any of them:
//   - an inactive stock item fails with *InactiveIngredientError
//   - for delta > 0, a shortfall fails with *InsufficientStockError
//
// On success, each ingredient's stock is decremented by quantityUsed*delta
// (incremented for negative delta), and the stock items now below their
// MinStock threshold are returned as an advisory.
func (l *Ledger) Reserve(ctx context.Context, menuItemID string, delta int) ([]StockItem, error) {
	if delta == 0 {
		return nil, nil
	}

	ingredients, err := l.store.IngredientsForMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	// Evaluation pass. Nothing is written until every ingredient passes.
	type adjustment struct {
		item     StockItem
		newStock decimal.Decimal
	}
	var (
		plan     []adjustment
		inactive []StockItem
		short    []Shortage
		deltaDec = decimal.NewFromInt(int64(delta))
	)

	for _, ing := range ingredients {
		item, err := l.store.GetStockItem(ctx, ing.StockItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, &NotFoundError{Kind: "stock item", ID: ing.StockItemID}
		}
		if !item.IsActive {
			inactive = append(inactive, *item)
			continue
		}

		required := ing.QuantityUsed.Mul(deltaDec)
		remaining := item.Stock.Sub(required)
		if delta > 0 && remaining.IsNegative() {
			short = append(short, Shortage{StockItem: *item, Required: required})
			continue
		}
		plan = append(plan, adjustment{item: *item, newStock: remaining})
	}

	if len(inactive) > 0 {
		return nil, &InactiveIngredientError{Items: inactive}
	}
	if len(short) > 0 {
		return nil, &InsufficientStockError{Shortages: short}
	}

	// Apply pass.
	var lowStock []StockItem
	for _, adj := range plan {
		adj.item.Stock = adj.newStock
		if err := l.store.SaveStockItem(ctx, adj.item); err != nil {
			return nil, err
		}
		if adj.item.Stock.LessThan(adj.item.MinStock) {
			lowStock = append(lowStock, adj.item)
		}
	}
	return lowStock, nil
}
