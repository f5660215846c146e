// Package menu holds the menu item catalog. Plain data storage; the order
// engine only ever reads the unit price from here.
package menu

import (
	"context"

	"github.com/shopspring/decimal"
)

// Item is one sellable menu entry.
type Item struct {
	ID       string
	Name     string
	Price    decimal.Decimal // unit price
	Category string
}

type Store interface {
	GetMenuItem(ctx context.Context, id string) (*Item, error)
	ListMenuItems(ctx context.Context) ([]Item, error)
	SaveMenuItem(ctx context.Context, item Item) error
	DeleteMenuItem(ctx context.Context, id string) error
}
