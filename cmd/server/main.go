package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/auth"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/backup"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/cache"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/config"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/database"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/db"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/handlers"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/health"
	apphttp "github.com/Techspace-2020/gas-agency-system-backend/internal/http"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/middleware"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/services"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store/memory"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store/postgres"
)

func main() {
	useMemory := flag.Bool("use-memory", false, "run against an in-memory store with demo data (no database required)")
	flag.Parse()

	cfg := config.Load()

	var st store.Store
	var pool *pgxpool.Pool

	if *useMemory {
		log.Println("[Store] Using in-memory store with demo catalog (data is not persisted)")
		st = memory.NewSeeded()
	} else {
		pool = db.Connect(cfg)
		defer pool.Close()

		log.Println("Running database migrations...")
		migrator := database.NewMigrator(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := migrator.RunMigrations(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to run migrations: %v", err)
		}
		cancel()

		st = postgres.New(pool)
	}

	// Redis cache is optional, catalog reads fall back to the store
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (catalog reads go to the store)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Day snapshots to R2 are optional
	var snapshots services.Snapshotter
	if cfg.Backup.Enabled {
		r2, err := backup.New(context.Background(),
			cfg.Backup.Endpoint, cfg.Backup.AccessKey, cfg.Backup.SecretKey,
			cfg.Backup.Bucket, cfg.Backup.Region)
		if err != nil {
			log.Printf("[Backup] R2 unavailable: %v (day snapshots disabled)", err)
		} else {
			log.Println("[Backup] R2 day snapshots enabled")
			snapshots = r2
		}
	}

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	catalog := services.NewCatalog(st)
	dayService := services.NewDayService(st, snapshots)
	stockService := services.NewStockService(st, dayService)
	deliveryService := services.NewDeliveryService(st, dayService, catalog)
	cashService := services.NewCashService(st, dayService, catalog)
	cashService.PerAgentTVRefund = cfg.Cash.PerAgentTVRefund
	cashService.GuardBalanceRollover = cfg.Cash.GuardBalanceRollover
	officeService := services.NewOfficeService(st, catalog)
	reportService := services.NewReportService(st, dayService)
	razorpayService := services.NewRazorpayService(st, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	metricsCollector := services.NewMetricsCollector(st, officeService)
	metricsCollector.Start()
	defer metricsCollector.Stop()

	stockDayHandler := handlers.NewStockDayHandler(dayService, stockService, deliveryService, cashService)
	officeHandler := handlers.NewOfficeHandler(officeService)
	cashHandler := handlers.NewCashHandler(razorpayService)
	reportHandler := handlers.NewReportHandler(reportService)
	authHandler := handlers.NewAuthHandler(st, jwtManager)
	healthHandler := handlers.NewHealthHandler(healthChecker)
	monitoringHandler := handlers.NewMonitoringHandler(pool)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, st)

	router := apphttp.NewRouter(cfg,
		stockDayHandler, officeHandler, cashHandler, reportHandler,
		authHandler, healthHandler, monitoringHandler, authMiddleware)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
