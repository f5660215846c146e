/*
handlers.go - HTTP API handlers for the POS order engine

PURPOSE:
  Exposes the order engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the order service and stores.

ENDPOINTS:
  Order items (the core mutation surface):
    POST   /order-items                Add a menu item to an open order
    PUT    /order-items/{id}/quantity  Apply a signed quantity delta
    DELETE /order-items/{id}           Remove the item, restore its stock

  Orders:
    POST   /orders                     Open a new order
    GET    /orders/{id}                Order with its line items
    PUT    /orders/{id}/cancel         Cancel, restore all stock

  Promos:
    GET/POST /promos, GET/DELETE /promos/{id}

  Menu / stock (plain collaborators):
    GET/POST /menu-items
    GET/POST /stock, GET /stock/low

ERROR HANDLING:
  Domain failures map to status codes in writeDomainError:
  - 400: insufficient stock / inactive ingredient (structured bodies with
         notEnoughStock / notActiveItems), invalid promo, negative
         quantity, cancelled order
  - 404: unknown order / order item / menu item / promo
  - 500: everything else
  Stock failures are evaluated before any mutation, so a 400 guarantees
  nothing changed.

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
  - order/service.go: the logic these handlers delegate to
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/menu"
	"github.com/tavolo/pos-engine/order"
	"github.com/tavolo/pos-engine/promo"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Stores  order.TxStores
	Service *order.Service
}

// NewHandler creates a handler over the given stores.
func NewHandler(stores order.TxStores) *Handler {
	return &Handler{
		Stores:  stores,
		Service: order.NewService(stores),
	}
}

// =============================================================================
// ORDER ITEM HANDLERS
// =============================================================================

// CreateOrderItem adds a menu item to an order.
// POST /order-items
func (h *Handler) CreateOrderItem(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.OrderID == "" || req.MenuItemID == "" {
		writeError(w, http.StatusBadRequest, "orderId and menuItemId are required", nil)
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive", nil)
		return
	}

	at, err := parseTimestamp(req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timestamp (use RFC3339)", err)
		return
	}

	result, err := h.Service.AddItem(r.Context(), req.OrderID, req.MenuItemID, req.Quantity, req.Comments, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mutationResponse(result))
}

// UpdateOrderItemQuantity applies a signed delta to a line item.
// PUT /order-items/{id}/quantity
func (h *Handler) UpdateOrderItemQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Quantity == 0 {
		writeError(w, http.StatusBadRequest, "quantity delta must be non-zero", nil)
		return
	}

	at, err := parseTimestamp(req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timestamp (use RFC3339)", err)
		return
	}

	result, err := h.Service.ChangeQuantity(r.Context(), id, req.Quantity, req.Comments, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse(result))
}

// DeleteOrderItem removes a line item and restores its stock.
// DELETE /order-items/{id}
func (h *Handler) DeleteOrderItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Service.RemoveItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, OrderItemResponse{Order: toOrderDTO(*result.Order)})
}

func mutationResponse(result *order.MutationResult) OrderItemResponse {
	resp := OrderItemResponse{Order: toOrderDTO(*result.Order)}
	if result.Item != nil {
		dto := toOrderItemDTO(*result.Item)
		resp.OrderItem = &dto
	}
	if len(result.LowStock) > 0 {
		resp.LowStock = toStockItemDTOs(result.LowStock)
	}
	return resp
}

// =============================================================================
// ORDER HANDLERS
// =============================================================================

// CreateOrder opens a new empty order.
// POST /orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.CreateOrder(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(*o))
}

// GetOrder returns an order with its items.
// GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, items, err := h.Service.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := OrderDetailResponse{Order: toOrderDTO(*o), OrderItems: []OrderItemDTO{}}
	for _, it := range items {
		resp.OrderItems = append(resp.OrderItems, toOrderItemDTO(it))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CancelOrder cancels an order and restores all consumed stock.
// PUT /orders/{id}/cancel
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	o, err := h.Service.Cancel(r.Context(), id, req.CancelReason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDTO(*o))
}

// =============================================================================
// PROMO HANDLERS
// =============================================================================

// ListPromos returns all promos.
// GET /promos
func (h *Handler) ListPromos(w http.ResponseWriter, r *http.Request) {
	promos, err := h.Stores.ListPromos(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list promos", err)
		return
	}

	dtos := make([]PromoDTO, len(promos))
	for i, p := range promos {
		dtos[i] = toPromoDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPromo returns one promo with its recurrence rules.
// GET /promos/{id}
func (h *Handler) GetPromo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Stores.GetPromo(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get promo", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Promo not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPromoDTO(*p))
}

// CreatePromo validates and saves a promo definition.
// POST /promos
func (h *Handler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	var req PromoDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := promoFromDTO(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid promo", err)
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid promo", err)
		return
	}

	if err := h.Stores.SavePromo(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save promo", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPromoDTO(p))
}

// DeletePromo removes a promo and its recurrence rules.
// DELETE /promos/{id}
func (h *Handler) DeletePromo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Stores.GetPromo(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get promo", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Promo not found", nil)
		return
	}

	if err := h.Stores.DeletePromo(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete promo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func promoFromDTO(dto PromoDTO) (promo.Promo, error) {
	p := promo.Promo{
		ID:          dto.ID,
		MenuItemID:  dto.MenuItemID,
		Name:        dto.Name,
		Type:        promo.Type(dto.Type),
		Percentage:  decimalFromFloat(dto.Percentage),
		Discount:    decimalFromFloat(dto.Discount),
		BuyQuantity: dto.BuyQuantity,
		PayQuantity: dto.PayQuantity,
		Always:      dto.Always,
		IsActive:    dto.IsActive,
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("promo-%d", time.Now().UnixNano())
	}
	if dto.StartDate != nil {
		t, err := time.Parse(time.RFC3339, *dto.StartDate)
		if err != nil {
			return p, fmt.Errorf("invalid startDate: %w", err)
		}
		p.StartDate = &t
	}
	if dto.EndDate != nil {
		t, err := time.Parse(time.RFC3339, *dto.EndDate)
		if err != nil {
			return p, fmt.Errorf("invalid endDate: %w", err)
		}
		p.EndDate = &t
	}
	for i, r := range dto.Rules {
		ruleID := r.ID
		if ruleID == "" {
			ruleID = fmt.Sprintf("rule-%s-%d", p.ID, i)
		}
		p.Rules = append(p.Rules, promo.RecurrenceRule{
			ID:        ruleID,
			PromoID:   p.ID,
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
	}
	return p, nil
}

// =============================================================================
// MENU HANDLERS
// =============================================================================

// ListMenuItems returns the catalog with ingredient bindings.
// GET /menu-items
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Stores.ListMenuItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list menu items", err)
		return
	}

	dtos := make([]MenuItemDTO, 0, len(items))
	for _, m := range items {
		ingredients, err := h.Stores.IngredientsForMenuItem(r.Context(), m.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load ingredients", err)
			return
		}
		dtos = append(dtos, toMenuItemDTO(m, ingredients))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateMenuItem saves a menu item and its ingredient bindings.
// POST /menu-items
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = fmt.Sprintf("menu-%d", time.Now().UnixNano())
	}

	item := menu.Item{
		ID:       req.ID,
		Name:     req.Name,
		Price:    decimalFromFloat(req.Price),
		Category: req.Category,
	}
	if err := h.Stores.SaveMenuItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save menu item", err)
		return
	}

	var saved []inventory.Ingredient
	for i, ing := range req.Ingredients {
		ingredient := inventory.Ingredient{
			ID:           ing.ID,
			MenuItemID:   item.ID,
			StockItemID:  ing.StockItemID,
			QuantityUsed: decimalFromFloat(ing.QuantityUsed),
		}
		if ingredient.ID == "" {
			ingredient.ID = fmt.Sprintf("ing-%s-%d", item.ID, i)
		}
		if err := h.Stores.SaveIngredient(r.Context(), ingredient); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save ingredient", err)
			return
		}
		saved = append(saved, ingredient)
	}

	writeJSON(w, http.StatusCreated, toMenuItemDTO(item, saved))
}

// =============================================================================
// STOCK HANDLERS
// =============================================================================

// ListStockItems returns all stock items.
// GET /stock
func (h *Handler) ListStockItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Stores.ListStockItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list stock", err)
		return
	}
	writeJSON(w, http.StatusOK, toStockItemDTOs(items))
}

// LowStock returns stock items at or below their advisory threshold.
// GET /stock/low
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Stores.ListStockItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list stock", err)
		return
	}

	low := []StockItemDTO{}
	for _, s := range items {
		if s.Stock.LessThan(s.MinStock) {
			low = append(low, toStockItemDTO(s))
		}
	}
	writeJSON(w, http.StatusOK, low)
}

// CreateStockItem saves a stock item.
// POST /stock
func (h *Handler) CreateStockItem(w http.ResponseWriter, r *http.Request) {
	var req CreateStockItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = fmt.Sprintf("stock-%d", time.Now().UnixNano())
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	item := inventory.StockItem{
		ID:       req.ID,
		Name:     req.Name,
		Unit:     req.Unit,
		Stock:    decimalFromFloat(req.Stock),
		MinStock: decimalFromFloat(req.MinStock),
		IsActive: active,
	}
	if err := h.Stores.SaveStockItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save stock item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStockItemDTO(item))
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// writeDomainError maps engine failures to HTTP responses. Stock failures
// carry structured bodies so the client can display what is missing.
func writeDomainError(w http.ResponseWriter, err error) {
	var insufficientErr *inventory.InsufficientStockError
	if errors.As(err, &insufficientErr) {
		resp := StockErrorResponse{Error: "Not enough stock"}
		for _, s := range insufficientErr.Shortages {
			resp.NotEnoughStock = append(resp.NotEnoughStock, NotEnoughStockDTO{
				StockItemDTO: toStockItemDTO(s.StockItem),
				Required:     s.Required.InexactFloat64(),
			})
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	var inactiveErr *inventory.InactiveIngredientError
	if errors.As(err, &inactiveErr) {
		writeJSON(w, http.StatusBadRequest, StockErrorResponse{
			Error:          "Ingredients not active",
			NotActiveItems: toStockItemDTOs(inactiveErr.Items),
		})
		return
	}

	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, order.ErrNegativeQuantity),
		errors.Is(err, order.ErrOrderCancelled),
		errors.Is(err, promo.ErrInvalidPromo):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
