// Package metrics registers the application's Prometheus collectors on the
// default registry, which the router exposes via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gas_agency_http_requests_total",
		Help: "Total HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gas_agency_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	DaysClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gas_agency_stock_days_closed_total",
		Help: "Stock days closed since process start",
	})

	NegativeStockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gas_agency_negative_stock_rejections_total",
		Help: "Closing stock calculations rejected for negative figures",
	})

	OutstandingBalanceTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gas_agency_outstanding_balance_rupees",
		Help: "Sum of pending agent closing balances",
	})

	PendingAgents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gas_agency_pending_agents",
		Help: "Agents whose balance status is PENDING",
	})

	OfficePendingCylinders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gas_agency_office_pending_cylinders",
		Help: "Cylinders held in office awaiting sale",
	})
)
