/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Internally everything is decimal.Decimal; DTOs expose plain JSON numbers,
  converted at this boundary only.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/menu"
	"github.com/tavolo/pos-engine/order"
	"github.com/tavolo/pos-engine/promo"
)

// =============================================================================
// ORDER / ORDER ITEM TYPES
// =============================================================================

// CreateOrderItemRequest adds a menu item to an open order.
type CreateOrderItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	OrderID    string `json:"orderId"`
	Quantity   int    `json:"quantity"`
	Comments   string `json:"comments"`
	Timestamp  string `json:"timestamp,omitempty"` // RFC3339; defaults to now
}

// UpdateQuantityRequest applies a signed quantity delta to a line item.
type UpdateQuantityRequest struct {
	Quantity  int    `json:"quantity"` // signed delta, not an absolute
	Timestamp string `json:"timestamp"`
	Comments  string `json:"comments,omitempty"`
}

// CancelOrderRequest carries the cancellation reason.
type CancelOrderRequest struct {
	CancelReason string `json:"cancelReason"`
}

type QuantityChangeDTO struct {
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

type AppliedPromoDTO struct {
	PromoID         string    `json:"promoId"`
	PromoName       string    `json:"promoName"`
	Quantity        int       `json:"quantity"`
	DiscountApplied float64   `json:"discountApplied"`
	Timestamp       time.Time `json:"timestamp"`
	Type            string    `json:"type"`
}

type OrderItemDTO struct {
	ID              string              `json:"id"`
	OrderID         string              `json:"orderId"`
	MenuItemID      string              `json:"menuItemId"`
	Quantity        int                 `json:"quantity"`
	Comments        string              `json:"comments,omitempty"`
	QuantityHistory []QuantityChangeDTO `json:"quantityHistory"`
	AppliedPromos   []AppliedPromoDTO   `json:"appliedPromos"`
	Subtotal        float64             `json:"subtotal"`
	DiscountApplied float64             `json:"discountApplied"`
	Total           float64             `json:"total"`
}

type OrderDTO struct {
	ID              string  `json:"id"`
	Status          string  `json:"status"`
	CancelReason    string  `json:"cancelReason,omitempty"`
	Subtotal        float64 `json:"subtotal"`
	DiscountApplied float64 `json:"discountApplied"`
	Total           float64 `json:"total"`
	CreatedAt       string  `json:"createdAt"`
}

// OrderItemResponse is the success shape of the mutation endpoints.
type OrderItemResponse struct {
	OrderItem *OrderItemDTO  `json:"orderItem,omitempty"`
	Order     OrderDTO       `json:"order"`
	LowStock  []StockItemDTO `json:"lowStock,omitempty"`
}

// OrderDetailResponse is an order with its line items.
type OrderDetailResponse struct {
	Order      OrderDTO       `json:"order"`
	OrderItems []OrderItemDTO `json:"orderItems"`
}

// =============================================================================
// STOCK TYPES
// =============================================================================

type StockItemDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit,omitempty"`
	Stock    float64 `json:"stock"`
	MinStock float64 `json:"minStock"`
	IsActive bool    `json:"isActive"`
}

// NotEnoughStockDTO is one shortage entry: the stock item plus how much the
// rejected reservation needed.
type NotEnoughStockDTO struct {
	StockItemDTO
	Required float64 `json:"required"`
}

// StockErrorResponse is the 400 body for rejected reservations.
type StockErrorResponse struct {
	Error          string              `json:"error"`
	NotEnoughStock []NotEnoughStockDTO `json:"notEnoughStock,omitempty"`
	NotActiveItems []StockItemDTO      `json:"notActiveItems,omitempty"`
}

type CreateStockItemRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Stock    float64 `json:"stock"`
	MinStock float64 `json:"minStock"`
	IsActive *bool   `json:"isActive"`
}

// =============================================================================
// PROMO TYPES
// =============================================================================

type RecurrenceRuleDTO struct {
	ID        string `json:"id,omitempty"`
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type PromoDTO struct {
	ID          string              `json:"id"`
	MenuItemID  string              `json:"menuItemId"`
	Name        string              `json:"name"`
	Type        string              `json:"type"`
	Percentage  float64             `json:"percentage,omitempty"`
	Discount    float64             `json:"discount,omitempty"`
	BuyQuantity int                 `json:"buy_quantity,omitempty"`
	PayQuantity int                 `json:"pay_quantity,omitempty"`
	StartDate   *string             `json:"startDate,omitempty"`
	EndDate     *string             `json:"endDate,omitempty"`
	Always      bool                `json:"always"`
	IsActive    bool                `json:"isActive"`
	Rules       []RecurrenceRuleDTO `json:"recurrenceRules,omitempty"`
}

// =============================================================================
// MENU TYPES
// =============================================================================

type IngredientDTO struct {
	ID           string  `json:"id,omitempty"`
	StockItemID  string  `json:"stockItemId"`
	QuantityUsed float64 `json:"quantityUsed"`
}

type MenuItemDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Category    string          `json:"category,omitempty"`
	Ingredients []IngredientDTO `json:"ingredients,omitempty"`
}

// =============================================================================
// GENERIC TYPES
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toOrderDTO(o order.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID,
		Status:          string(o.Status),
		CancelReason:    o.CancelReason,
		Subtotal:        o.Subtotal.InexactFloat64(),
		DiscountApplied: o.DiscountApplied.InexactFloat64(),
		Total:           o.Total.InexactFloat64(),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

func toOrderItemDTO(it order.Item) OrderItemDTO {
	dto := OrderItemDTO{
		ID:              it.ID,
		OrderID:         it.OrderID,
		MenuItemID:      it.MenuItemID,
		Quantity:        it.Quantity,
		Comments:        it.Comments,
		QuantityHistory: make([]QuantityChangeDTO, len(it.QuantityHistory)),
		AppliedPromos:   make([]AppliedPromoDTO, len(it.AppliedPromos)),
		Subtotal:        it.Subtotal.InexactFloat64(),
		DiscountApplied: it.DiscountApplied.InexactFloat64(),
		Total:           it.Total.InexactFloat64(),
	}
	for i, c := range it.QuantityHistory {
		dto.QuantityHistory[i] = QuantityChangeDTO{Quantity: c.Quantity, Timestamp: c.Timestamp}
	}
	for i, ap := range it.AppliedPromos {
		dto.AppliedPromos[i] = AppliedPromoDTO{
			PromoID:         ap.PromoID,
			PromoName:       ap.PromoName,
			Quantity:        ap.Quantity,
			DiscountApplied: ap.DiscountApplied.InexactFloat64(),
			Timestamp:       ap.Timestamp,
			Type:            ap.Type,
		}
	}
	return dto
}

func toStockItemDTO(s inventory.StockItem) StockItemDTO {
	return StockItemDTO{
		ID:       s.ID,
		Name:     s.Name,
		Unit:     s.Unit,
		Stock:    s.Stock.InexactFloat64(),
		MinStock: s.MinStock.InexactFloat64(),
		IsActive: s.IsActive,
	}
}

func toStockItemDTOs(items []inventory.StockItem) []StockItemDTO {
	dtos := make([]StockItemDTO, len(items))
	for i, s := range items {
		dtos[i] = toStockItemDTO(s)
	}
	return dtos
}

func toPromoDTO(p promo.Promo) PromoDTO {
	dto := PromoDTO{
		ID:          p.ID,
		MenuItemID:  p.MenuItemID,
		Name:        p.Name,
		Type:        string(p.Type),
		Percentage:  p.Percentage.InexactFloat64(),
		Discount:    p.Discount.InexactFloat64(),
		BuyQuantity: p.BuyQuantity,
		PayQuantity: p.PayQuantity,
		Always:      p.Always,
		IsActive:    p.IsActive,
	}
	if p.StartDate != nil {
		s := p.StartDate.Format(time.RFC3339)
		dto.StartDate = &s
	}
	if p.EndDate != nil {
		s := p.EndDate.Format(time.RFC3339)
		dto.EndDate = &s
	}
	for _, r := range p.Rules {
		dto.Rules = append(dto.Rules, RecurrenceRuleDTO{
			ID:        r.ID,
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
	}
	return dto
}

func toMenuItemDTO(m menu.Item, ingredients []inventory.Ingredient) MenuItemDTO {
	dto := MenuItemDTO{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price.InexactFloat64(),
		Category: m.Category,
	}
	for _, ing := range ingredients {
		dto.Ingredients = append(dto.Ingredients, IngredientDTO{
			ID:           ing.ID,
			StockItemID:  ing.StockItemID,
			QuantityUsed: ing.QuantityUsed.InexactFloat64(),
		})
	}
	return dto
}

func decimalFromFloat(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }
