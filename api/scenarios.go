/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for development and demos. Each scenario creates menu items, stock
  items, ingredient bindings and promos that demonstrate specific features.

AVAILABLE SCENARIOS:
  trattoria:   Small menu with full ingredient tracking
  happy-hour:  Recurring and always-on promos on a bar menu
  low-stock:   Menu whose ingredients sit near their thresholds

HOW SCENARIOS WORK:
  Every scenario writes fixed ids, so loading one twice upserts the same
  rows rather than duplicating them. Orders are not seeded; those come
  from exercising the mutation endpoints.

USAGE VIA API:
  POST /scenarios/load
  {"scenario_id": "happy-hour"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:
  Only use in development/demo environments.

SEE ALSO:
  - handlers.go: the regular CRUD surface
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/menu"
	"github.com/tavolo/pos-engine/promo"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one loadable demo dataset.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "trattoria",
		Name:        "Trattoria",
		Description: "Small Italian menu with full ingredient tracking",
		Category:    "menu",
	},
	{
		ID:          "happy-hour",
		Name:        "Happy Hour",
		Description: "Bar menu with a recurring happy hour promo and a buy-3-pay-2 deal",
		Category:    "promos",
	},
	{
		ID:          "low-stock",
		Name:        "Low Stock",
		Description: "Menu whose ingredients sit just above their minimum thresholds",
		Category:    "inventory",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	var err error
	switch req.ScenarioID {
	case "trattoria":
		err = h.loadTrattoriaScenario(ctx)
	case "happy-hour":
		err = h.loadHappyHourScenario(ctx)
	case "low-stock":
		err = h.loadLowStockScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadTrattoriaScenario(ctx context.Context) error {
	stock := []inventory.StockItem{
		{ID: "demo-stock-flour", Name: "Flour", Unit: "kg", Stock: dm("25"), MinStock: dm("5"), IsActive: true},
		{ID: "demo-stock-mozzarella", Name: "Mozzarella", Unit: "kg", Stock: dm("8"), MinStock: dm("2"), IsActive: true},
		{ID: "demo-stock-tomato", Name: "Tomato Sauce", Unit: "l", Stock: dm("12"), MinStock: dm("3"), IsActive: true},
		{ID: "demo-stock-spaghetti", Name: "Spaghetti", Unit: "kg", Stock: dm("10"), MinStock: dm("2"), IsActive: true},
	}
	for _, s := range stock {
		if err := h.Stores.SaveStockItem(ctx, s); err != nil {
			return err
		}
	}

	items := []menu.Item{
		{ID: "demo-menu-margherita", Name: "Pizza Margherita", Price: dm("11.50"), Category: "pizza"},
		{ID: "demo-menu-pomodoro", Name: "Spaghetti al Pomodoro", Price: dm("9.00"), Category: "pasta"},
	}
	for _, m := range items {
		if err := h.Stores.SaveMenuItem(ctx, m); err != nil {
			return err
		}
	}

	bindings := []inventory.Ingredient{
		{ID: "demo-ing-marg-flour", MenuItemID: "demo-menu-margherita", StockItemID: "demo-stock-flour", QuantityUsed: dm("0.25")},
		{ID: "demo-ing-marg-mozz", MenuItemID: "demo-menu-margherita", StockItemID: "demo-stock-mozzarella", QuantityUsed: dm("0.15")},
		{ID: "demo-ing-marg-tomato", MenuItemID: "demo-menu-margherita", StockItemID: "demo-stock-tomato", QuantityUsed: dm("0.1")},
		{ID: "demo-ing-pomo-pasta", MenuItemID: "demo-menu-pomodoro", StockItemID: "demo-stock-spaghetti", QuantityUsed: dm("0.12")},
		{ID: "demo-ing-pomo-tomato", MenuItemID: "demo-menu-pomodoro", StockItemID: "demo-stock-tomato", QuantityUsed: dm("0.15")},
	}
	for _, ing := range bindings {
		if err := h.Stores.SaveIngredient(ctx, ing); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadHappyHourScenario(ctx context.Context) error {
	if err := h.Stores.SaveStockItem(ctx, inventory.StockItem{
		ID: "demo-stock-lager", Name: "Lager Keg", Unit: "l", Stock: dm("50"), MinStock: dm("10"), IsActive: true,
	}); err != nil {
		return err
	}
	if err := h.Stores.SaveMenuItem(ctx, menu.Item{
		ID: "demo-menu-pint", Name: "Lager Pint", Price: dm("6.00"), Category: "drinks",
	}); err != nil {
		return err
	}
	if err := h.Stores.SaveIngredient(ctx, inventory.Ingredient{
		ID: "demo-ing-pint-lager", MenuItemID: "demo-menu-pint", StockItemID: "demo-stock-lager", QuantityUsed: dm("0.5"),
	}); err != nil {
		return err
	}

	happyHour := promo.Promo{
		ID:         "demo-promo-happy-hour",
		MenuItemID: "demo-menu-pint",
		Name:       "Happy Hour",
		Type:       promo.TypePercentage,
		Percentage: dm("30"),
		IsActive:   true,
		Rules: []promo.RecurrenceRule{
			{ID: "demo-rule-hh-fri", PromoID: "demo-promo-happy-hour", DayOfWeek: "Friday", StartTime: "17:00", EndTime: "19:00"},
			{ID: "demo-rule-hh-sat", PromoID: "demo-promo-happy-hour", DayOfWeek: "Saturday", StartTime: "22:00", EndTime: "02:00"},
		},
	}
	if err := h.Stores.SavePromo(ctx, happyHour); err != nil {
		return err
	}

	roundOfThree := promo.Promo{
		ID:          "demo-promo-round",
		MenuItemID:  "demo-menu-pint",
		Name:        "Round of Three",
		Type:        promo.TypeBuyXGetY,
		BuyQuantity: 3,
		PayQuantity: 2,
		Always:      true,
		IsActive:    false, // enabled on demand during demos
	}
	return h.Stores.SavePromo(ctx, roundOfThree)
}

func (h *Handler) loadLowStockScenario(ctx context.Context) error {
	if err := h.Stores.SaveStockItem(ctx, inventory.StockItem{
		ID: "demo-stock-truffle", Name: "Truffle", Unit: "kg", Stock: dm("0.3"), MinStock: dm("0.25"), IsActive: true,
	}); err != nil {
		return err
	}
	if err := h.Stores.SaveMenuItem(ctx, menu.Item{
		ID: "demo-menu-truffle-pasta", Name: "Truffle Tagliatelle", Price: dm("24.00"), Category: "pasta",
	}); err != nil {
		return err
	}
	// Three portions and the truffle drops below its threshold.
	return h.Stores.SaveIngredient(ctx, inventory.Ingredient{
		ID: "demo-ing-truffle", MenuItemID: "demo-menu-truffle-pasta", StockItemID: "demo-stock-truffle", QuantityUsed: dm("0.02"),
	})
}

// dm parses a decimal literal; scenario data is hand-written and trusted.
func dm(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
