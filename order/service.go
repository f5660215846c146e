/*
service.go - Orchestration of order mutations

PURPOSE:
  The Service is the single entry point for every mutation of an open
  order: adding a line item, changing its quantity, removing it, and
  cancelling the whole order. Each mutation is serialized per order and
  executed inside a store transaction, so concurrent requests can never
  double-spend stock or lose a quantity increment.

MUTATION SEQUENCE (all four operations):
  1. Resolve the order id and take its lock
  2. Inside WithTx: load state, reserve stock (all-or-nothing), append the
     quantity delta, replay promos, recompute item and order totals, save
  3. Typed failures (insufficient stock, inactive ingredient, not found,
     negative quantity) roll the transaction back untouched

CONCURRENCY:
  A single open ticket is edited by at most one agent action at a time in
  practice; a per-order mutex makes that a guarantee. Promo evaluation is
  pure and needs no synchronization. No operation blocks indefinitely - a
  reservation either succeeds transactionally or fails fast.

CANCELLATION:
  Cancel restores all consumed stock and deletes the order's items. It is
  idempotent: cancelling an already-cancelled order returns it unchanged
  with no second stock reversal.

SEE ALSO:
  - item.go: AddQuantity / promo replay
  - inventory/inventory.go: Reserve
*/
package order

import (
	"context"
	"sync"
	"time"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/promo"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service owns the mutation paths for orders and their line items.
type Service struct {
	stores TxStores

	// Per-order locks. The registry grows with distinct order ids; open
	// tickets are few and short-lived, so entries are not reaped.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// now is injectable for tests.
	now func() time.Time
}

func NewService(stores TxStores) *Service {
	return &Service{
		stores: stores,
		locks:  make(map[string]*sync.Mutex),
		now:    time.Now,
	}
}

// WithClock overrides the evaluation clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) orderLock(orderID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[orderID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[orderID] = l
	}
	return l
}

// MutationResult is what every successful mutation hands back: the touched
// item (nil for removals/cancels), the recomputed order, and any stock items
// that dropped below their advisory threshold.
type MutationResult struct {
	Item     *Item
	Order    *Order
	LowStock []inventory.StockItem
}

// =============================================================================
// OPERATIONS
// =============================================================================

// AddItem creates a new line item on an open order and applies the opening
// quantity. The ledger row starts at quantity 0; the opening delta is its
// first history entry.
func (s *Service) AddItem(ctx context.Context, orderID, menuItemID string, quantity int, comments string, at time.Time) (*MutationResult, error) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	if at.IsZero() {
		at = s.now()
	}

	var result MutationResult
	err := s.stores.WithTx(ctx, func(st Stores) error {
		o, err := st.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return &NotFoundError{Kind: "order", ID: orderID}
		}
		if o.Status == StatusCancelled {
			return ErrOrderCancelled
		}

		mi, err := st.GetMenuItem(ctx, menuItemID)
		if err != nil {
			return err
		}
		if mi == nil {
			return &NotFoundError{Kind: "menu item", ID: menuItemID}
		}

		item := NewItem(newID("item"), orderID, menuItemID, comments)

		low, err := inventory.NewLedger(st).Reserve(ctx, menuItemID, quantity)
		if err != nil {
			return err
		}

		promos, err := st.PromosForMenuItem(ctx, menuItemID)
		if err != nil {
			return err
		}
		if err := item.AddQuantity(quantity, at, mi.Price, promos, s.now()); err != nil {
			return err
		}
		if err := st.SaveItem(ctx, *item); err != nil {
			return err
		}

		updated, err := s.recalculateOrder(ctx, st, o)
		if err != nil {
			return err
		}
		result = MutationResult{Item: item, Order: updated, LowStock: low}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ChangeQuantity applies a signed delta to an existing line item. Negative
// deltas release stock; positive deltas must pass the reservation check.
func (s *Service) ChangeQuantity(ctx context.Context, itemID string, delta int, comments string, at time.Time) (*MutationResult, error) {
	orderID, err := s.orderIDForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	if at.IsZero() {
		at = s.now()
	}

	var result MutationResult
	err = s.stores.WithTx(ctx, func(st Stores) error {
		item, err := st.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return &NotFoundError{Kind: "order item", ID: itemID}
		}

		o, err := st.GetOrder(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return &NotFoundError{Kind: "order", ID: item.OrderID}
		}
		if o.Status == StatusCancelled {
			return ErrOrderCancelled
		}

		// Pre-check before touching stock: a delta below zero total is a
		// caller bug and must not move the ledger.
		if item.Quantity+delta < 0 {
			return &NegativeQuantityError{ItemID: item.ID, Current: item.Quantity, Delta: delta}
		}

		mi, err := st.GetMenuItem(ctx, item.MenuItemID)
		if err != nil {
			return err
		}
		if mi == nil {
			return &NotFoundError{Kind: "menu item", ID: item.MenuItemID}
		}

		low, err := inventory.NewLedger(st).Reserve(ctx, item.MenuItemID, delta)
		if err != nil {
			return err
		}

		promos, err := st.PromosForMenuItem(ctx, item.MenuItemID)
		if err != nil {
			return err
		}
		if err := item.AddQuantity(delta, at, mi.Price, promos, s.now()); err != nil {
			return err
		}
		if comments != "" {
			item.Comments = comments
		}
		if err := st.SaveItem(ctx, *item); err != nil {
			return err
		}

		updated, err := s.recalculateOrder(ctx, st, o)
		if err != nil {
			return err
		}
		result = MutationResult{Item: item, Order: updated, LowStock: low}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveItem deletes a line item and returns its net consumed stock to the
// inventory.
func (s *Service) RemoveItem(ctx context.Context, itemID string) (*MutationResult, error) {
	orderID, err := s.orderIDForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	var result MutationResult
	err = s.stores.WithTx(ctx, func(st Stores) error {
		item, err := st.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return &NotFoundError{Kind: "order item", ID: itemID}
		}

		o, err := st.GetOrder(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return &NotFoundError{Kind: "order", ID: item.OrderID}
		}

		if _, err := inventory.NewLedger(st).Reserve(ctx, item.MenuItemID, -item.Quantity); err != nil {
			return err
		}
		if err := st.DeleteItem(ctx, item.ID); err != nil {
			return err
		}

		updated, err := s.recalculateOrder(ctx, st, o)
		if err != nil {
			return err
		}
		result = MutationResult{Order: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Cancel reverses stock for every line item, deletes them and marks the
// order cancelled. Cancelling twice is a no-op the second time.
func (s *Service) Cancel(ctx context.Context, orderID, reason string) (*Order, error) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	var cancelled *Order
	err := s.stores.WithTx(ctx, func(st Stores) error {
		o, err := st.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return &NotFoundError{Kind: "order", ID: orderID}
		}
		if o.Status == StatusCancelled {
			// Idempotent: no second stock reversal.
			cancelled = o
			return nil
		}

		items, err := st.ItemsForOrder(ctx, orderID)
		if err != nil {
			return err
		}
		ledger := inventory.NewLedger(st)
		for _, it := range items {
			if _, err := ledger.Reserve(ctx, it.MenuItemID, -it.Quantity); err != nil {
				return err
			}
			if err := st.DeleteItem(ctx, it.ID); err != nil {
				return err
			}
		}

		o.Status = StatusCancelled
		o.CancelReason = reason
		o.Recalculate(nil)
		if err := st.SaveOrder(ctx, *o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// CreateOrder opens a new empty order.
func (s *Service) CreateOrder(ctx context.Context) (*Order, error) {
	o := &Order{
		ID:        newID("order"),
		Status:    StatusOpen,
		CreatedAt: s.now(),
	}
	o.Recalculate(nil)
	if err := s.stores.SaveOrder(ctx, *o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder loads an order with its items.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*Order, []Item, error) {
	o, err := s.stores.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, &NotFoundError{Kind: "order", ID: orderID}
	}
	items, err := s.stores.ItemsForOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) orderIDForItem(ctx context.Context, itemID string) (string, error) {
	item, err := s.stores.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", &NotFoundError{Kind: "order item", ID: itemID}
	}
	return item.OrderID, nil
}

func (s *Service) recalculateOrder(ctx context.Context, st Stores, o *Order) (*Order, error) {
	items, err := st.ItemsForOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Recalculate(items)
	if err := st.SaveOrder(ctx, *o); err != nil {
		return nil, err
	}
	return o, nil
}

// ValidPromosAt filters promos to those active and valid at t. Exposed for
// read paths that want to show the currently applicable promos.
func ValidPromosAt(promos []promo.Promo, t time.Time) []promo.Promo {
	var out []promo.Promo
	for _, p := range promos {
		if p.IsActive && p.IsValidAt(t) {
			out = append(out, p)
		}
	}
	return out
}
