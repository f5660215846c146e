/*
handlers_test.go - HTTP API tests

End-to-end over the real router and an in-memory SQLite store: request in,
JSON out, nothing mocked.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/menu"
	"github.com/tavolo/pos-engine/promo"
	"github.com/tavolo/pos-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestServer seeds a 10.00 burger consuming 1 patty per unit,
// 10 patties in stock.
func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SaveMenuItem(ctx, menu.Item{
		ID: "menu-burger", Name: "Burger", Price: dec("10"),
	}))
	require.NoError(t, store.SaveStockItem(ctx, inventory.StockItem{
		ID: "stock-patty", Name: "Patty", Stock: dec("10"), MinStock: dec("2"), IsActive: true,
	}))
	require.NoError(t, store.SaveIngredient(ctx, inventory.Ingredient{
		ID: "ing-patty", MenuItemID: "menu-burger", StockItemID: "stock-patty", QuantityUsed: dec("1"),
	}))

	ts := httptest.NewServer(NewRouter(NewHandler(store)))
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createOrder(t *testing.T, ts *httptest.Server) OrderDTO {
	t.Helper()
	var o OrderDTO
	status := doJSON(t, ts, http.MethodPost, "/orders", nil, &o)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, o.ID)
	return o
}

// =============================================================================
// ORDER ITEM LIFECYCLE
// =============================================================================

func TestAPI_OrderItemLifecycle(t *testing.T) {
	// GIVEN: An open order
	// WHEN: Adding 2 burgers, bumping to 3, then deleting the item
	// THEN: Each response carries the recomputed order

	ts, _ := newTestServer(t)
	o := createOrder(t, ts)

	var created OrderItemResponse
	status := doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 2, Comments: "no pickles",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, created.OrderItem)
	assert.Equal(t, 2, created.OrderItem.Quantity)
	assert.Equal(t, "no pickles", created.OrderItem.Comments)
	assert.InDelta(t, 20.0, created.Order.Subtotal, 0.001)
	assert.Len(t, created.OrderItem.QuantityHistory, 1)

	var updated OrderItemResponse
	status = doJSON(t, ts, http.MethodPut, "/order-items/"+created.OrderItem.ID+"/quantity",
		UpdateQuantityRequest{Quantity: 1}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, updated.OrderItem.Quantity)
	assert.InDelta(t, 30.0, updated.Order.Total, 0.001)
	assert.Len(t, updated.OrderItem.QuantityHistory, 2)

	var removed OrderItemResponse
	status = doJSON(t, ts, http.MethodDelete, "/order-items/"+created.OrderItem.ID, nil, &removed)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, removed.OrderItem)
	assert.InDelta(t, 0.0, removed.Order.Total, 0.001)

	var detail OrderDetailResponse
	status = doJSON(t, ts, http.MethodGet, "/orders/"+o.ID, nil, &detail)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, detail.OrderItems)
}

func TestAPI_CreateOrderItem_Validation(t *testing.T) {
	ts, _ := newTestServer(t)
	o := createOrder(t, ts)

	var resp ErrorResponse
	status := doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 0,
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		MenuItemID: "menu-burger", Quantity: 1,
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: "order-missing", MenuItemID: "menu-burger", Quantity: 1,
	}, &resp)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_UpdateQuantity_NegativeTotalRejected(t *testing.T) {
	ts, _ := newTestServer(t)
	o := createOrder(t, ts)

	var created OrderItemResponse
	status := doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 2,
	}, &created)
	require.Equal(t, http.StatusCreated, status)

	var resp ErrorResponse
	status = doJSON(t, ts, http.MethodPut, "/order-items/"+created.OrderItem.ID+"/quantity",
		UpdateQuantityRequest{Quantity: -5}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Error, "negative")
}

// =============================================================================
// STOCK FAILURE SHAPES
// =============================================================================

func TestAPI_InsufficientStock_StructuredResponse(t *testing.T) {
	// GIVEN: 10 patties in stock
	// WHEN: Ordering 12 burgers
	// THEN: 400 with the shortage detail, and stock untouched

	ts, store := newTestServer(t)
	o := createOrder(t, ts)

	var resp StockErrorResponse
	status := doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 12,
	}, &resp)
	require.Equal(t, http.StatusBadRequest, status)

	require.Len(t, resp.NotEnoughStock, 1)
	assert.Equal(t, "stock-patty", resp.NotEnoughStock[0].ID)
	assert.InDelta(t, 12.0, resp.NotEnoughStock[0].Required, 0.001)
	assert.InDelta(t, 10.0, resp.NotEnoughStock[0].Stock, 0.001)

	patty, err := store.GetStockItem(context.Background(), "stock-patty")
	require.NoError(t, err)
	assert.True(t, patty.Stock.Equal(dec("10")))
}

func TestAPI_InactiveIngredient_StructuredResponse(t *testing.T) {
	ts, store := newTestServer(t)
	ctx := context.Background()

	patty, err := store.GetStockItem(ctx, "stock-patty")
	require.NoError(t, err)
	patty.IsActive = false
	require.NoError(t, store.SaveStockItem(ctx, *patty))

	o := createOrder(t, ts)
	var resp StockErrorResponse
	status := doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 1,
	}, &resp)
	require.Equal(t, http.StatusBadRequest, status)
	require.Len(t, resp.NotActiveItems, 1)
	assert.Equal(t, "stock-patty", resp.NotActiveItems[0].ID)
}

func TestAPI_LowStockAdvisoryInResponse(t *testing.T) {
	ts, _ := newTestServer(t)
	o := createOrder(t, ts)

	var created OrderItemResponse
	status := doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 9,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, created.LowStock, 1)
	assert.Equal(t, "stock-patty", created.LowStock[0].ID)
}

// =============================================================================
// CANCEL
// =============================================================================

func TestAPI_CancelOrder_RestoresStock(t *testing.T) {
	ts, store := newTestServer(t)
	o := createOrder(t, ts)

	var created OrderItemResponse
	status := doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 4,
	}, &created)
	require.Equal(t, http.StatusCreated, status)

	var cancelled OrderDTO
	status = doJSON(t, ts, http.MethodPut, "/orders/"+o.ID+"/cancel",
		CancelOrderRequest{CancelReason: "kitchen closed"}, &cancelled)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "kitchen closed", cancelled.CancelReason)

	patty, err := store.GetStockItem(context.Background(), "stock-patty")
	require.NoError(t, err)
	assert.True(t, patty.Stock.Equal(dec("10")))

	// Mutations against the cancelled order are rejected.
	var resp ErrorResponse
	status = doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 1,
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
}

// =============================================================================
// PROMOS OVER HTTP
// =============================================================================

func TestAPI_PromoCRUDAndApplication(t *testing.T) {
	ts, _ := newTestServer(t)

	var createdPromo PromoDTO
	status := doJSON(t, ts, http.MethodPost, "/promos", PromoDTO{
		MenuItemID: "menu-burger", Name: "Half off", Type: string(promo.TypePercentage),
		Percentage: 50, Always: true, IsActive: true,
	}, &createdPromo)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, createdPromo.ID)

	var promos []PromoDTO
	status = doJSON(t, ts, http.MethodGet, "/promos", nil, &promos)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, promos, 1)

	// The promo lands on new order items.
	o := createOrder(t, ts)
	var created OrderItemResponse
	status = doJSON(t, ts, http.MethodPost, "/order-items", CreateOrderItemRequest{
		OrderID: o.ID, MenuItemID: "menu-burger", Quantity: 2,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.InDelta(t, 20.0, created.OrderItem.Subtotal, 0.001)
	assert.InDelta(t, 10.0, created.OrderItem.DiscountApplied, 0.001)
	assert.InDelta(t, 10.0, created.Order.Total, 0.001)
	require.Len(t, created.OrderItem.AppliedPromos, 1)
	assert.Equal(t, createdPromo.ID, created.OrderItem.AppliedPromos[0].PromoID)

	status = doJSON(t, ts, http.MethodDelete, "/promos/"+createdPromo.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	var resp ErrorResponse
	status = doJSON(t, ts, http.MethodGet, "/promos/"+createdPromo.ID, nil, &resp)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_CreatePromo_InvalidDefinitionRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp ErrorResponse
	status := doJSON(t, ts, http.MethodPost, "/promos", PromoDTO{
		MenuItemID: "menu-burger", Name: "Broken", Type: string(promo.TypePercentage),
		Percentage: 150, Always: true, IsActive: true,
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_CreatePromo_WithRecurrenceRules(t *testing.T) {
	ts, _ := newTestServer(t)

	var created PromoDTO
	status := doJSON(t, ts, http.MethodPost, "/promos", PromoDTO{
		MenuItemID: "menu-burger", Name: "Happy hour", Type: string(promo.TypePercentage),
		Percentage: 30, IsActive: true,
		Rules: []RecurrenceRuleDTO{
			{DayOfWeek: "Friday", StartTime: "17:00", EndTime: "19:00"},
		},
	}, &created)
	require.Equal(t, http.StatusCreated, status)

	var got PromoDTO
	status = doJSON(t, ts, http.MethodGet, "/promos/"+created.ID, nil, &got)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, got.Rules, 1)
	assert.Equal(t, "Friday", got.Rules[0].DayOfWeek)
}

// =============================================================================
// MENU AND STOCK ENDPOINTS
// =============================================================================

func TestAPI_MenuAndStockEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	var createdMenu MenuItemDTO
	status := doJSON(t, ts, http.MethodPost, "/menu-items", MenuItemDTO{
		Name: "Fries", Price: 4.5, Category: "sides",
		Ingredients: []IngredientDTO{{StockItemID: "stock-patty", QuantityUsed: 0.5}},
	}, &createdMenu)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, createdMenu.ID)
	require.Len(t, createdMenu.Ingredients, 1)

	var menuItems []MenuItemDTO
	status = doJSON(t, ts, http.MethodGet, "/menu-items", nil, &menuItems)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, menuItems, 2)

	var createdStock StockItemDTO
	status = doJSON(t, ts, http.MethodPost, "/stock", CreateStockItemRequest{
		Name: "Ketchup", Unit: "l", Stock: 1.5, MinStock: 2,
	}, &createdStock)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, createdStock.IsActive, "active by default")

	var low []StockItemDTO
	status = doJSON(t, ts, http.MethodGet, "/stock/low", nil, &low)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, low, 1)
	assert.Equal(t, "Ketchup", low[0].Name)
}

func TestAPI_Health(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(fmt.Sprintf("%s/health", ts.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
