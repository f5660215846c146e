/*
store.go - Storage ports for the order engine

PURPOSE:
  Defines the persistence capabilities the order service needs, and the
  combined transactional view every mutation runs against. The service
  never reaches a global database handle; it is handed a TxStores at
  construction.

ATOMICITY:
  Every mutation (add item, change quantity, remove item, cancel) is a
  read-check-write sequence over stock rows AND order-item rows. WithTx
  gives the whole sequence all-or-nothing semantics: a stock rejection or
  any mid-flight failure leaves no partial state.

IMPLEMENTATIONS:
  - store/sqlite: production store, JSON text columns for the event log
  - store/memory: in-memory store for tests
*/
package order

import (
	"context"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/menu"
	"github.com/tavolo/pos-engine/promo"
)

// Store is the order-side persistence capability.
type Store interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
	SaveOrder(ctx context.Context, o Order) error

	GetItem(ctx context.Context, id string) (*Item, error)
	ItemsForOrder(ctx context.Context, orderID string) ([]Item, error)
	SaveItem(ctx context.Context, it Item) error
	DeleteItem(ctx context.Context, id string) error
}

// Stores bundles every port a mutation touches.
type Stores interface {
	Store
	inventory.Store
	promo.Store
	menu.Store
}

// TxStores adds transactional execution over the bundle.
type TxStores interface {
	Stores

	// WithTx executes fn against a transactional view of the stores.
	// fn returning an error rolls everything back.
	WithTx(ctx context.Context, fn func(Stores) error) error
}
