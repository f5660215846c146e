/*
scheduler.go - Background low-stock monitor

PURPOSE:
  Periodically scans the stock items and logs the ones that have fallen
  below their minimum threshold, so a restaurant notices depleted
  ingredients even when nobody is watching the mutation responses.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Purely advisory: never blocks or rejects anything
  - Logs each low item once per scan

CONFIGURATION:
  - CheckInterval: How often to scan (default: 15 minutes)
  - Enabled: Whether the monitor is active (default: true)

USAGE:
  monitor := NewStockMonitor(stores)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - inventory/inventory.go: the advisory threshold on Reserve
  - handlers.go: LowStock endpoint (on-demand report)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tavolo/pos-engine/inventory"
)

// StockMonitor periodically reports stock items below their threshold.
type StockMonitor struct {
	Store         inventory.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewStockMonitor creates a monitor with the default interval.
func NewStockMonitor(store inventory.Store) *StockMonitor {
	return &StockMonitor{
		Store:         store,
		CheckInterval: 15 * time.Minute,
		Enabled:       true,
	}
}

// Start launches the background scan loop. Safe to call once.
func (m *StockMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Enabled || m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.CheckInterval)
	m.stop = make(chan struct{})
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-m.ticker.C:
				m.scan(context.Background())
			case <-m.stop:
				return
			}
		}
	}()

	log.Printf("Stock monitor started (interval: %s)", m.CheckInterval)
}

// Stop halts the scan loop and waits for it to exit.
func (m *StockMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ticker == nil {
		return
	}

	m.ticker.Stop()
	close(m.stop)
	m.wg.Wait()
	m.ticker = nil

	log.Println("Stock monitor stopped")
}

// scan logs every stock item sitting below its minimum.
func (m *StockMonitor) scan(ctx context.Context) {
	items, err := m.Store.ListStockItems(ctx)
	if err != nil {
		log.Printf("Stock monitor: scan failed: %v", err)
		return
	}

	for _, item := range items {
		if !item.IsActive {
			continue
		}
		if item.Stock.LessThan(item.MinStock) {
			log.Printf("Stock monitor: %s low (%s %s remaining, minimum %s)",
				item.Name, item.Stock, item.Unit, item.MinStock)
		}
	}
}
