/*
Package sqlite provides the SQLite-backed implementation of every storage port.

PURPOSE:
  One Store implements order.Store, inventory.Store, promo.Store and
  menu.Store, plus the transactional bundle order.TxStores. The same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  orders:           Order aggregates with derived totals
  order_items:      Line-item ledgers; quantity_history and applied_promos
                    are JSON-encoded text columns (field names are a
                    compatibility contract, see order/types.go)
  promos:           Discount definitions
  recurrence_rules: Weekly windows, cascade-deleted with their promo
  menu_items:       Catalog with unit prices
  ingredients:      Menu item -> stock item consumption bindings
  stock_items:      On-hand stock, fractional, decimal-encoded as text

JSON BOUNDARY:
  quantity_history and applied_promos are (de)serialized here and nowhere
  else. Business logic only ever sees typed slices.

CONCURRENCY:
  sync.RWMutex guards the handle; WithTx holds the write lock for the whole
  read-check-write sequence, so a mutation observes and commits a consistent
  snapshot. SQLite runs in WAL mode for crash recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production use a versioned
  migration tool.

SEE ALSO:
  - order/store.go: port definitions
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/menu"
	"github.com/tavolo/pos-engine/order"
	"github.com/tavolo/pos-engine/promo"
)

// Store implements every storage port over a single SQLite handle.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
	queries
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: writes are serialized by the mutex anyway, and a pooled
	// second connection to a ":memory:" path would see a different database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	s.queries = queries{q: db, mu: &s.mu}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'open',
		cancel_reason TEXT,
		subtotal TEXT NOT NULL DEFAULT '0',
		discount_applied TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		menu_item_id TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		comments TEXT,
		quantity_history TEXT NOT NULL DEFAULT '[]',
		applied_promos TEXT NOT NULL DEFAULT '[]',
		subtotal TEXT NOT NULL DEFAULT '0',
		discount_applied TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order
		ON order_items(order_id);

	CREATE TABLE IF NOT EXISTS promos (
		id TEXT PRIMARY KEY,
		menu_item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		promo_type TEXT NOT NULL,
		percentage TEXT NOT NULL DEFAULT '0',
		discount TEXT NOT NULL DEFAULT '0',
		buy_quantity INTEGER NOT NULL DEFAULT 0,
		pay_quantity INTEGER NOT NULL DEFAULT 0,
		start_date TEXT,
		end_date TEXT,
		always_valid BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_promos_menu_item
		ON promos(menu_item_id);

	CREATE TABLE IF NOT EXISTS recurrence_rules (
		id TEXT PRIMARY KEY,
		promo_id TEXT NOT NULL REFERENCES promos(id) ON DELETE CASCADE,
		day_of_week TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recurrence_rules_promo
		ON recurrence_rules(promo_id);

	CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price TEXT NOT NULL DEFAULT '0',
		category TEXT
	);

	CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		menu_item_id TEXT NOT NULL,
		stock_item_id TEXT NOT NULL,
		quantity_used TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_ingredients_menu_item
		ON ingredients(menu_item_id);

	CREATE TABLE IF NOT EXISTS stock_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit TEXT,
		stock TEXT NOT NULL DEFAULT '0',
		min_stock TEXT NOT NULL DEFAULT '0',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONAL BUNDLE (order.TxStores interface)
// =============================================================================

// WithTx executes fn within a database transaction. The write lock is held
// for the whole sequence so the read-check-write pattern observes a
// consistent snapshot.
func (s *Store) WithTx(ctx context.Context, fn func(order.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&queries{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements every port over a querier. When mu is set (the
// non-transactional path), each call takes the appropriate lock; inside
// WithTx the write lock is already held and mu is nil.
type queries struct {
	q  querier
	mu *sync.RWMutex
}

func (c *queries) rlock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.RLock()
	return c.mu.RUnlock
}

func (c *queries) lock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

// =============================================================================
// ORDER STORE (order.Store interface)
// =============================================================================

func (c *queries) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	defer c.rlock()()

	var (
		o            order.Order
		cancelReason sql.NullString
		subtotal     string
		discount     string
		total        string
		createdAt    string
	)
	err := c.q.QueryRowContext(ctx,
		`SELECT id, status, cancel_reason, subtotal, discount_applied, total, created_at
		 FROM orders WHERE id = ?`, id,
	).Scan(&o.ID, &o.Status, &cancelReason, &subtotal, &discount, &total, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.CancelReason = cancelReason.String
	o.Subtotal = parseDecimal(subtotal)
	o.DiscountApplied = parseDecimal(discount)
	o.Total = parseDecimal(total)
	o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &o, nil
}

func (c *queries) SaveOrder(ctx context.Context, o order.Order) error {
	defer c.lock()()

	query := `
		INSERT INTO orders (id, status, cancel_reason, subtotal, discount_applied, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			cancel_reason = excluded.cancel_reason,
			subtotal = excluded.subtotal,
			discount_applied = excluded.discount_applied,
			total = excluded.total
	`
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := c.q.ExecContext(ctx, query,
		o.ID, o.Status, nullString(o.CancelReason),
		o.Subtotal.String(), o.DiscountApplied.String(), o.Total.String(),
		createdAt.Format(time.RFC3339),
	)
	return err
}

const itemColumns = `SELECT id, order_id, menu_item_id, quantity, comments,
	quantity_history, applied_promos, subtotal, discount_applied, total`

func (c *queries) GetItem(ctx context.Context, id string) (*order.Item, error) {
	defer c.rlock()()

	items, err := c.queryItems(ctx, itemColumns+` FROM order_items WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (c *queries) ItemsForOrder(ctx context.Context, orderID string) ([]order.Item, error) {
	defer c.rlock()()

	return c.queryItems(ctx,
		itemColumns+` FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
}

func (c *queries) queryItems(ctx context.Context, query string, args ...any) ([]order.Item, error) {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var (
			it       order.Item
			comments sql.NullString
			history  string
			promos   string
			subtotal string
			discount string
			total    string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity,
			&comments, &history, &promos, &subtotal, &discount, &total); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		it.Comments = comments.String
		it.Subtotal = parseDecimal(subtotal)
		it.DiscountApplied = parseDecimal(discount)
		it.Total = parseDecimal(total)

		// JSON boundary: the only place history rows are decoded.
		if err := json.Unmarshal([]byte(history), &it.QuantityHistory); err != nil {
			return nil, fmt.Errorf("corrupt quantity_history for item %s: %w", it.ID, err)
		}
		if err := json.Unmarshal([]byte(promos), &it.AppliedPromos); err != nil {
			return nil, fmt.Errorf("corrupt applied_promos for item %s: %w", it.ID, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (c *queries) SaveItem(ctx context.Context, it order.Item) error {
	defer c.lock()()

	history, err := json.Marshal(it.QuantityHistory)
	if err != nil {
		return fmt.Errorf("failed to encode quantity history: %w", err)
	}
	promos, err := json.Marshal(it.AppliedPromos)
	if err != nil {
		return fmt.Errorf("failed to encode applied promos: %w", err)
	}

	query := `
		INSERT INTO order_items
		(id, order_id, menu_item_id, quantity, comments, quantity_history,
		 applied_promos, subtotal, discount_applied, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			quantity = excluded.quantity,
			comments = excluded.comments,
			quantity_history = excluded.quantity_history,
			applied_promos = excluded.applied_promos,
			subtotal = excluded.subtotal,
			discount_applied = excluded.discount_applied,
			total = excluded.total
	`
	_, err = c.q.ExecContext(ctx, query,
		it.ID, it.OrderID, it.MenuItemID, it.Quantity, nullString(it.Comments),
		string(history), string(promos),
		it.Subtotal.String(), it.DiscountApplied.String(), it.Total.String(),
	)
	return err
}

func (c *queries) DeleteItem(ctx context.Context, id string) error {
	defer c.lock()()

	_, err := c.q.ExecContext(ctx, "DELETE FROM order_items WHERE id = ?", id)
	return err
}

// =============================================================================
// PROMO STORE (promo.Store interface)
// =============================================================================

const promoColumns = `SELECT id, menu_item_id, name, promo_type, percentage, discount,
	buy_quantity, pay_quantity, start_date, end_date, always_valid, is_active`

func (c *queries) PromosForMenuItem(ctx context.Context, menuItemID string) ([]promo.Promo, error) {
	defer c.rlock()()

	return c.queryPromos(ctx,
		promoColumns+` FROM promos WHERE menu_item_id = ? ORDER BY id`, menuItemID)
}

func (c *queries) GetPromo(ctx context.Context, id string) (*promo.Promo, error) {
	defer c.rlock()()

	promos, err := c.queryPromos(ctx, promoColumns+` FROM promos WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(promos) == 0 {
		return nil, nil
	}
	return &promos[0], nil
}

func (c *queries) ListPromos(ctx context.Context) ([]promo.Promo, error) {
	defer c.rlock()()

	return c.queryPromos(ctx, promoColumns+` FROM promos ORDER BY name`)
}

func (c *queries) queryPromos(ctx context.Context, query string, args ...any) ([]promo.Promo, error) {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query promos: %w", err)
	}
	defer rows.Close()

	var promos []promo.Promo
	for rows.Next() {
		var (
			p          promo.Promo
			percentage string
			discount   string
			startDate  sql.NullString
			endDate    sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.MenuItemID, &p.Name, &p.Type, &percentage,
			&discount, &p.BuyQuantity, &p.PayQuantity, &startDate, &endDate,
			&p.Always, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan promo: %w", err)
		}

		p.Percentage = parseDecimal(percentage)
		p.Discount = parseDecimal(discount)
		if startDate.Valid {
			t, _ := time.Parse(time.RFC3339, startDate.String)
			p.StartDate = &t
		}
		if endDate.Valid {
			t, _ := time.Parse(time.RFC3339, endDate.String)
			p.EndDate = &t
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range promos {
		rules, err := c.rulesForPromo(ctx, promos[i].ID)
		if err != nil {
			return nil, err
		}
		promos[i].Rules = rules
	}
	return promos, nil
}

func (c *queries) rulesForPromo(ctx context.Context, promoID string) ([]promo.RecurrenceRule, error) {
	rows, err := c.q.QueryContext(ctx,
		`SELECT id, promo_id, day_of_week, start_time, end_time
		 FROM recurrence_rules WHERE promo_id = ? ORDER BY id`, promoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []promo.RecurrenceRule
	for rows.Next() {
		var r promo.RecurrenceRule
		if err := rows.Scan(&r.ID, &r.PromoID, &r.DayOfWeek, &r.StartTime, &r.EndTime); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (c *queries) SavePromo(ctx context.Context, p promo.Promo) error {
	defer c.lock()()

	query := `
		INSERT INTO promos
		(id, menu_item_id, name, promo_type, percentage, discount,
		 buy_quantity, pay_quantity, start_date, end_date, always_valid, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			menu_item_id = excluded.menu_item_id,
			name = excluded.name,
			promo_type = excluded.promo_type,
			percentage = excluded.percentage,
			discount = excluded.discount,
			buy_quantity = excluded.buy_quantity,
			pay_quantity = excluded.pay_quantity,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			always_valid = excluded.always_valid,
			is_active = excluded.is_active
	`
	_, err := c.q.ExecContext(ctx, query,
		p.ID, p.MenuItemID, p.Name, p.Type,
		p.Percentage.String(), p.Discount.String(),
		p.BuyQuantity, p.PayQuantity,
		nullTime(p.StartDate), nullTime(p.EndDate),
		p.Always, p.IsActive,
	)
	if err != nil {
		return err
	}

	// Rules are replaced wholesale with their promo.
	if _, err := c.q.ExecContext(ctx, "DELETE FROM recurrence_rules WHERE promo_id = ?", p.ID); err != nil {
		return err
	}
	for _, r := range p.Rules {
		_, err := c.q.ExecContext(ctx,
			`INSERT INTO recurrence_rules (id, promo_id, day_of_week, start_time, end_time)
			 VALUES (?, ?, ?, ?, ?)`,
			r.ID, p.ID, r.DayOfWeek, r.StartTime, r.EndTime)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *queries) DeletePromo(ctx context.Context, id string) error {
	defer c.lock()()

	// Explicit rule delete in addition to the FK cascade, so behavior does
	// not depend on the foreign_keys pragma.
	if _, err := c.q.ExecContext(ctx, "DELETE FROM recurrence_rules WHERE promo_id = ?", id); err != nil {
		return err
	}
	_, err := c.q.ExecContext(ctx, "DELETE FROM promos WHERE id = ?", id)
	return err
}

// =============================================================================
// INVENTORY STORE (inventory.Store interface)
// =============================================================================

func (c *queries) IngredientsForMenuItem(ctx context.Context, menuItemID string) ([]inventory.Ingredient, error) {
	defer c.rlock()()

	rows, err := c.q.QueryContext(ctx,
		`SELECT id, menu_item_id, stock_item_id, quantity_used
		 FROM ingredients WHERE menu_item_id = ? ORDER BY id`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []inventory.Ingredient
	for rows.Next() {
		var (
			ing  inventory.Ingredient
			used string
		)
		if err := rows.Scan(&ing.ID, &ing.MenuItemID, &ing.StockItemID, &used); err != nil {
			return nil, err
		}
		ing.QuantityUsed = parseDecimal(used)
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func (c *queries) GetStockItem(ctx context.Context, id string) (*inventory.StockItem, error) {
	defer c.rlock()()

	var (
		item     inventory.StockItem
		unit     sql.NullString
		stock    string
		minStock string
	)
	err := c.q.QueryRowContext(ctx,
		`SELECT id, name, unit, stock, min_stock, is_active FROM stock_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &unit, &stock, &minStock, &item.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.Unit = unit.String
	item.Stock = parseDecimal(stock)
	item.MinStock = parseDecimal(minStock)
	return &item, nil
}

func (c *queries) ListStockItems(ctx context.Context) ([]inventory.StockItem, error) {
	defer c.rlock()()

	rows, err := c.q.QueryContext(ctx,
		`SELECT id, name, unit, stock, min_stock, is_active FROM stock_items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []inventory.StockItem
	for rows.Next() {
		var (
			item     inventory.StockItem
			unit     sql.NullString
			stock    string
			minStock string
		)
		if err := rows.Scan(&item.ID, &item.Name, &unit, &stock, &minStock, &item.IsActive); err != nil {
			return nil, err
		}
		item.Unit = unit.String
		item.Stock = parseDecimal(stock)
		item.MinStock = parseDecimal(minStock)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (c *queries) SaveStockItem(ctx context.Context, item inventory.StockItem) error {
	defer c.lock()()

	query := `
		INSERT INTO stock_items (id, name, unit, stock, min_stock, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			unit = excluded.unit,
			stock = excluded.stock,
			min_stock = excluded.min_stock,
			is_active = excluded.is_active
	`
	_, err := c.q.ExecContext(ctx, query,
		item.ID, item.Name, nullString(item.Unit),
		item.Stock.String(), item.MinStock.String(), item.IsActive)
	return err
}

func (c *queries) SaveIngredient(ctx context.Context, ing inventory.Ingredient) error {
	defer c.lock()()

	query := `
		INSERT INTO ingredients (id, menu_item_id, stock_item_id, quantity_used)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			menu_item_id = excluded.menu_item_id,
			stock_item_id = excluded.stock_item_id,
			quantity_used = excluded.quantity_used
	`
	_, err := c.q.ExecContext(ctx, query,
		ing.ID, ing.MenuItemID, ing.StockItemID, ing.QuantityUsed.String())
	return err
}

// =============================================================================
// MENU STORE (menu.Store interface)
// =============================================================================

func (c *queries) GetMenuItem(ctx context.Context, id string) (*menu.Item, error) {
	defer c.rlock()()

	var (
		item     menu.Item
		price    string
		category sql.NullString
	)
	err := c.q.QueryRowContext(ctx,
		`SELECT id, name, price, category FROM menu_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &price, &category)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.Price = parseDecimal(price)
	item.Category = category.String
	return &item, nil
}

func (c *queries) ListMenuItems(ctx context.Context) ([]menu.Item, error) {
	defer c.rlock()()

	rows, err := c.q.QueryContext(ctx,
		`SELECT id, name, price, category FROM menu_items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []menu.Item
	for rows.Next() {
		var (
			item     menu.Item
			price    string
			category sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &price, &category); err != nil {
			return nil, err
		}
		item.Price = parseDecimal(price)
		item.Category = category.String
		items = append(items, item)
	}
	return items, rows.Err()
}

func (c *queries) SaveMenuItem(ctx context.Context, item menu.Item) error {
	defer c.lock()()

	query := `
		INSERT INTO menu_items (id, name, price, category)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			category = excluded.category
	`
	_, err := c.q.ExecContext(ctx, query,
		item.ID, item.Name, item.Price.String(), nullString(item.Category))
	return err
}

func (c *queries) DeleteMenuItem(ctx context.Context, id string) error {
	defer c.lock()()

	_, err := c.q.ExecContext(ctx, "DELETE FROM menu_items WHERE id = ?", id)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
