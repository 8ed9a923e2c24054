package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/config"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/handlers"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/middleware"
)

func NewRouter(
	cfg *config.Config,
	stockDayHandler *handlers.StockDayHandler,
	officeHandler *handlers.OfficeHandler,
	cashHandler *handlers.CashHandler,
	reportHandler *handlers.ReportHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	monitoringHandler *handlers.MonitoringHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.NewCORS(cfg))
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Stock days (the daily close workflow)
	stockDaysAPI := r.PathPrefix("/api/v1/stock-days").Subrouter()
	stockDaysAPI.Use(authMiddleware.Authenticate)
	stockDaysAPI.HandleFunc("", stockDayHandler.CreateDay).Methods("POST")
	stockDaysAPI.HandleFunc("/supplier-movements", stockDayHandler.UpdateSupplierMovements).Methods("PUT")
	stockDaysAPI.HandleFunc("/delivery-sales", stockDayHandler.RecordDeliverySales).Methods("POST")
	stockDaysAPI.HandleFunc("/office-sales", stockDayHandler.RecordOfficeSales).Methods("POST")
	stockDaysAPI.HandleFunc("/tv-out", stockDayHandler.RecordTVOut).Methods("POST")
	stockDaysAPI.HandleFunc("/cash-deposits", stockDayHandler.RecordCashDeposits).Methods("POST")
	stockDaysAPI.HandleFunc("/{date}/initialize", stockDayHandler.InitializeOpeningStock).Methods("POST")
	stockDaysAPI.HandleFunc("/{date}/calculate-stock", stockDayHandler.CalculateClosingStock).Methods("POST")
	stockDaysAPI.HandleFunc("/{date}/calculate-expected-cash", stockDayHandler.CalculateExpectedCash).Methods("POST")
	stockDaysAPI.HandleFunc("/{date}/update-balances", stockDayHandler.UpdateBalances).Methods("POST")
	stockDaysAPI.HandleFunc("/{date}/close", stockDayHandler.CloseDay).Methods("POST")
	stockDaysAPI.HandleFunc("/{date}/report.pdf", reportHandler.DayReportPDF).Methods("GET")
	stockDaysAPI.HandleFunc("/{date}/report.csv", reportHandler.DayReportCSV).Methods("GET")

	// Protected API routes - Office counter sales
	officeAPI := r.PathPrefix("/api/v1/office").Subrouter()
	officeAPI.Use(authMiddleware.Authenticate)
	officeAPI.HandleFunc("/pending-stock", officeHandler.PendingStock).Methods("GET")

	// Protected API routes - Dues collection
	cashAPI := r.PathPrefix("/api/v1/cash").Subrouter()
	cashAPI.Use(authMiddleware.Authenticate)
	cashAPI.HandleFunc("/payment-link", cashHandler.CreatePaymentLink).Methods("POST")

	// Protected API routes - System Monitoring
	monitoringAPI := r.PathPrefix("/api/monitoring").Subrouter()
	monitoringAPI.Use(authMiddleware.Authenticate)
	monitoringAPI.HandleFunc("/stats", monitoringHandler.Stats).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
