package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/metrics"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

// MetricsCollector periodically refreshes the business gauges exported on
// /metrics: outstanding agent dues, agents with a pending balance and
// office-held stock awaiting sale.
type MetricsCollector struct {
	store           store.Store
	office          *OfficeService
	collectInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(s store.Store, office *OfficeService) *MetricsCollector {
	return &MetricsCollector{
		store:           s,
		office:          office,
		collectInterval: 30 * time.Second,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *MetricsCollector) Start() {
	log.Println("[MetricsCollector] Starting metrics collector...")

	// Collect immediately on start
	c.collectAll()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collectAll()
			case <-c.stopChan:
				log.Println("[MetricsCollector] Stopping metrics collector...")
				return
			}
		}
	}()
}

// Stop stops the metrics collection
func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collectAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c.collectBalanceMetrics(ctx)
	c.collectOfficeMetrics(ctx)
}

func (c *MetricsCollector) collectBalanceMetrics(ctx context.Context) {
	balances, err := c.store.ListBalances(ctx)
	if err != nil {
		log.Printf("[MetricsCollector] Error fetching balances: %v", err)
		return
	}

	outstanding := 0.0
	pendingAgents := 0
	for _, b := range balances {
		if b.Status == models.BalancePending {
			pendingAgents++
			f, _ := b.ClosingBalance.Float64()
			outstanding += f
		}
	}

	metrics.OutstandingBalanceTotal.Set(outstanding)
	metrics.PendingAgents.Set(float64(pendingAgents))
}

func (c *MetricsCollector) collectOfficeMetrics(ctx context.Context) {
	pending, err := c.office.PendingStock(ctx)
	if err != nil {
		log.Printf("[MetricsCollector] Error fetching office pending stock: %v", err)
		return
	}

	qty := 0
	for _, s := range pending.Stocks {
		qty += s.PendingQty
	}
	metrics.OfficePendingCylinders.Set(float64(qty))
}
