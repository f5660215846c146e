/*
scenarios_test.go - Tests for demo scenarios

Each scenario must leave the expected state behind: menu items with their
ingredient bindings, stock items, and promos. Loading twice must not
duplicate anything.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_List(t *testing.T) {
	ts, _ := newTestServer(t)

	var list []ScenarioDTO
	status := doJSON(t, ts, http.MethodGet, "/scenarios", nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 3)
}

func TestScenarios_LoadTrattoria(t *testing.T) {
	// GIVEN: A fresh database (the seeded burger aside)
	// WHEN: Loading the trattoria scenario twice
	// THEN: The menu and stock exist exactly once

	ts, store := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		var resp map[string]string
		status := doJSON(t, ts, http.MethodPost, "/scenarios/load",
			map[string]string{"scenario_id": "trattoria"}, &resp)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "loaded", resp["status"])
	}

	m, err := store.GetMenuItem(ctx, "demo-menu-margherita")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Pizza Margherita", m.Name)

	ingredients, err := store.IngredientsForMenuItem(ctx, "demo-menu-margherita")
	require.NoError(t, err)
	assert.Len(t, ingredients, 3, "reloading must not duplicate bindings")

	flour, err := store.GetStockItem(ctx, "demo-stock-flour")
	require.NoError(t, err)
	require.NotNil(t, flour)
	assert.Equal(t, "kg", flour.Unit)
}

func TestScenarios_LoadHappyHour(t *testing.T) {
	ts, store := newTestServer(t)
	ctx := context.Background()

	var resp map[string]string
	status := doJSON(t, ts, http.MethodPost, "/scenarios/load",
		map[string]string{"scenario_id": "happy-hour"}, &resp)
	require.Equal(t, http.StatusOK, status)

	promos, err := store.PromosForMenuItem(ctx, "demo-menu-pint")
	require.NoError(t, err)
	require.Len(t, promos, 2)

	hh, err := store.GetPromo(ctx, "demo-promo-happy-hour")
	require.NoError(t, err)
	require.NotNil(t, hh)
	assert.True(t, hh.IsActive)
	require.Len(t, hh.Rules, 2)
	assert.Equal(t, "02:00", hh.Rules[1].EndTime, "the Saturday window crosses midnight")

	round, err := store.GetPromo(ctx, "demo-promo-round")
	require.NoError(t, err)
	require.NotNil(t, round)
	assert.False(t, round.IsActive, "the bundle deal ships disabled")
}

func TestScenarios_UnknownID(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp ErrorResponse
	status := doJSON(t, ts, http.MethodPost, "/scenarios/load",
		map[string]string{"scenario_id": "nope"}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
}
