/*
scheduler_test.go - Tests for the background low-stock monitor
*/
package api

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/store/memory"
)

func TestStockMonitor_ScanLogsLowItems(t *testing.T) {
	// GIVEN: One low item, one healthy item, one inactive low item
	// WHEN: Running a scan
	// THEN: Only the active low item is reported

	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.SaveStockItem(ctx, inventory.StockItem{
		ID: "s-low", Name: "Saffron", Unit: "g", Stock: dec("1"), MinStock: dec("5"), IsActive: true,
	}))
	require.NoError(t, store.SaveStockItem(ctx, inventory.StockItem{
		ID: "s-ok", Name: "Salt", Unit: "kg", Stock: dec("10"), MinStock: dec("1"), IsActive: true,
	}))
	require.NoError(t, store.SaveStockItem(ctx, inventory.StockItem{
		ID: "s-dead", Name: "Retired", Unit: "kg", Stock: dec("0"), MinStock: dec("1"), IsActive: false,
	}))

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	monitor := NewStockMonitor(store)
	monitor.scan(ctx)

	out := buf.String()
	assert.Contains(t, out, "Saffron")
	assert.NotContains(t, out, "Salt")
	assert.NotContains(t, out, "Retired")
}

func TestStockMonitor_StartStop(t *testing.T) {
	store := memory.New()
	monitor := NewStockMonitor(store)
	monitor.CheckInterval = 10 * time.Millisecond

	monitor.Start()
	time.Sleep(30 * time.Millisecond)
	monitor.Stop()

	// Stop again is a no-op, not a panic.
	monitor.Stop()
}

func TestStockMonitor_DisabledDoesNotStart(t *testing.T) {
	monitor := NewStockMonitor(memory.New())
	monitor.Enabled = false
	monitor.Start()
	monitor.Stop()
}
