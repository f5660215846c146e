/*
Package memory provides an in-memory implementation of every storage port.

Used by tests and dev runs. WithTx simulates transactions with a full
snapshot + restore on error, mirroring the rollback semantics of the SQLite
store closely enough for the engine tests to be meaningful.
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/menu"
	"github.com/tavolo/pos-engine/order"
	"github.com/tavolo/pos-engine/promo"
)

// Store keeps everything in maps. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	state
}

type state struct {
	orders      map[string]order.Order
	items       map[string]order.Item
	promos      map[string]promo.Promo
	menuItems   map[string]menu.Item
	stockItems  map[string]inventory.StockItem
	ingredients map[string]inventory.Ingredient
}

func New() *Store {
	return &Store{state: newState()}
}

func newState() state {
	return state{
		orders:      make(map[string]order.Order),
		items:       make(map[string]order.Item),
		promos:      make(map[string]promo.Promo),
		menuItems:   make(map[string]menu.Item),
		stockItems:  make(map[string]inventory.StockItem),
		ingredients: make(map[string]inventory.Ingredient),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		v.QuantityHistory = append([]order.QuantityChange(nil), v.QuantityHistory...)
		v.AppliedPromos = append([]order.AppliedPromo(nil), v.AppliedPromos...)
		c.items[k] = v
	}
	for k, v := range s.promos {
		v.Rules = append([]promo.RecurrenceRule(nil), v.Rules...)
		c.promos[k] = v
	}
	for k, v := range s.menuItems {
		c.menuItems[k] = v
	}
	for k, v := range s.stockItems {
		c.stockItems[k] = v
	}
	for k, v := range s.ingredients {
		c.ingredients[k] = v
	}
	return c
}

// =============================================================================
// TRANSACTIONAL BUNDLE (order.TxStores interface)
// =============================================================================

// WithTx executes fn against the live state under the write lock, restoring
// a pre-snapshot if fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(order.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&view{s: &s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// view is the unlocked access path used inside WithTx.
type view struct {
	s *state
}

// =============================================================================
// ORDER STORE
// =============================================================================

func (v *view) GetOrder(_ context.Context, id string) (*order.Order, error) {
	o, ok := v.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (v *view) SaveOrder(_ context.Context, o order.Order) error {
	v.s.orders[o.ID] = o
	return nil
}

func (v *view) GetItem(_ context.Context, id string) (*order.Item, error) {
	it, ok := v.s.items[id]
	if !ok {
		return nil, nil
	}
	it.QuantityHistory = append([]order.QuantityChange(nil), it.QuantityHistory...)
	it.AppliedPromos = append([]order.AppliedPromo(nil), it.AppliedPromos...)
	return &it, nil
}

func (v *view) ItemsForOrder(_ context.Context, orderID string) ([]order.Item, error) {
	var items []order.Item
	for _, it := range v.s.items {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (v *view) SaveItem(_ context.Context, it order.Item) error {
	it.QuantityHistory = append([]order.QuantityChange(nil), it.QuantityHistory...)
	it.AppliedPromos = append([]order.AppliedPromo(nil), it.AppliedPromos...)
	v.s.items[it.ID] = it
	return nil
}

func (v *view) DeleteItem(_ context.Context, id string) error {
	delete(v.s.items, id)
	return nil
}

// =============================================================================
// PROMO STORE
// =============================================================================

func (v *view) PromosForMenuItem(_ context.Context, menuItemID string) ([]promo.Promo, error) {
	var promos []promo.Promo
	for _, p := range v.s.promos {
		if p.MenuItemID == menuItemID {
			promos = append(promos, p)
		}
	}
	sort.Slice(promos, func(i, j int) bool { return promos[i].ID < promos[j].ID })
	return promos, nil
}

func (v *view) GetPromo(_ context.Context, id string) (*promo.Promo, error) {
	p, ok := v.s.promos[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (v *view) ListPromos(_ context.Context) ([]promo.Promo, error) {
	var promos []promo.Promo
	for _, p := range v.s.promos {
		promos = append(promos, p)
	}
	sort.Slice(promos, func(i, j int) bool { return promos[i].Name < promos[j].Name })
	return promos, nil
}

func (v *view) SavePromo(_ context.Context, p promo.Promo) error {
	p.Rules = append([]promo.RecurrenceRule(nil), p.Rules...)
	v.s.promos[p.ID] = p
	return nil
}

func (v *view) DeletePromo(_ context.Context, id string) error {
	delete(v.s.promos, id) // rules live on the promo; they go with it
	return nil
}

// =============================================================================
// INVENTORY STORE
// =============================================================================

func (v *view) IngredientsForMenuItem(_ context.Context, menuItemID string) ([]inventory.Ingredient, error) {
	var ingredients []inventory.Ingredient
	for _, ing := range v.s.ingredients {
		if ing.MenuItemID == menuItemID {
			ingredients = append(ingredients, ing)
		}
	}
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].ID < ingredients[j].ID })
	return ingredients, nil
}

func (v *view) GetStockItem(_ context.Context, id string) (*inventory.StockItem, error) {
	item, ok := v.s.stockItems[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (v *view) ListStockItems(_ context.Context) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	for _, item := range v.s.stockItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (v *view) SaveStockItem(_ context.Context, item inventory.StockItem) error {
	v.s.stockItems[item.ID] = item
	return nil
}

func (v *view) SaveIngredient(_ context.Context, ing inventory.Ingredient) error {
	v.s.ingredients[ing.ID] = ing
	return nil
}

// =============================================================================
// MENU STORE
// =============================================================================

func (v *view) GetMenuItem(_ context.Context, id string) (*menu.Item, error) {
	item, ok := v.s.menuItems[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (v *view) ListMenuItems(_ context.Context) ([]menu.Item, error) {
	var items []menu.Item
	for _, item := range v.s.menuItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (v *view) SaveMenuItem(_ context.Context, item menu.Item) error {
	v.s.menuItems[item.ID] = item
	return nil
}

func (v *view) DeleteMenuItem(_ context.Context, id string) error {
	delete(v.s.menuItems, id)
	return nil
}

// =============================================================================
// LOCKED DELEGATION - the non-transactional access path
// =============================================================================

func (s *Store) read() (*view, func()) {
	s.mu.RLock()
	return &view{s: &s.state}, s.mu.RUnlock
}

func (s *Store) write() (*view, func()) {
	s.mu.Lock()
	return &view{s: &s.state}, s.mu.Unlock
}

func (s *Store) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	v, done := s.read()
	defer done()
	return v.GetOrder(ctx, id)
}

func (s *Store) SaveOrder(ctx context.Context, o order.Order) error {
	v, done := s.write()
	defer done()
	return v.SaveOrder(ctx, o)
}

func (s *Store) GetItem(ctx context.Context, id string) (*order.Item, error) {
	v, done := s.read()
	defer done()
	return v.GetItem(ctx, id)
}

func (s *Store) ItemsForOrder(ctx context.Context, orderID string) ([]order.Item, error) {
	v, done := s.read()
	defer done()
	return v.ItemsForOrder(ctx, orderID)
}

func (s *Store) SaveItem(ctx context.Context, it order.Item) error {
	v, done := s.write()
	defer done()
	return v.SaveItem(ctx, it)
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	v, done := s.write()
	defer done()
	return v.DeleteItem(ctx, id)
}

func (s *Store) PromosForMenuItem(ctx context.Context, menuItemID string) ([]promo.Promo, error) {
	v, done := s.read()
	defer done()
	return v.PromosForMenuItem(ctx, menuItemID)
}

func (s *Store) GetPromo(ctx context.Context, id string) (*promo.Promo, error) {
	v, done := s.read()
	defer done()
	return v.GetPromo(ctx, id)
}

func (s *Store) ListPromos(ctx context.Context) ([]promo.Promo, error) {
	v, done := s.read()
	defer done()
	return v.ListPromos(ctx)
}

func (s *Store) SavePromo(ctx context.Context, p promo.Promo) error {
	v, done := s.write()
	defer done()
	return v.SavePromo(ctx, p)
}

func (s *Store) DeletePromo(ctx context.Context, id string) error {
	v, done := s.write()
	defer done()
	return v.DeletePromo(ctx, id)
}

func (s *Store) IngredientsForMenuItem(ctx context.Context, menuItemID string) ([]inventory.Ingredient, error) {
	v, done := s.read()
	defer done()
	return v.IngredientsForMenuItem(ctx, menuItemID)
}

func (s *Store) GetStockItem(ctx context.Context, id string) (*inventory.StockItem, error) {
	v, done := s.read()
	defer done()
	return v.GetStockItem(ctx, id)
}

func (s *Store) ListStockItems(ctx context.Context) ([]inventory.StockItem, error) {
	v, done := s.read()
	defer done()
	return v.ListStockItems(ctx)
}

func (s *Store) SaveStockItem(ctx context.Context, item inventory.StockItem) error {
	v, done := s.write()
	defer done()
	return v.SaveStockItem(ctx, item)
}

func (s *Store) SaveIngredient(ctx context.Context, ing inventory.Ingredient) error {
	v, done := s.write()
	defer done()
	return v.SaveIngredient(ctx, ing)
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (*menu.Item, error) {
	v, done := s.read()
	defer done()
	return v.GetMenuItem(ctx, id)
}

func (s *Store) ListMenuItems(ctx context.Context) ([]menu.Item, error) {
	v, done := s.read()
	defer done()
	return v.ListMenuItems(ctx)
}

func (s *Store) SaveMenuItem(ctx context.Context, item menu.Item) error {
	v, done := s.write()
	defer done()
	return v.SaveMenuItem(ctx, item)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	v, done := s.write()
	defer done()
	return v.DeleteMenuItem(ctx, id)
}
