package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL STOCK AND CASH DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all stock days and daily summaries")
	fmt.Println("  - Delete all delivery issues and vehicle empty stock")
	fmt.Println("  - Delete all expected amounts, deposits and balances")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println()
	fmt.Println("Catalog data (cylinder types, pricing, agents) and users are kept.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "gas_agency_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	ctx := context.Background()

	fmt.Println()
	fmt.Println("Resetting database...")

	statements := []string{
		"DELETE FROM delivery_cash_balance",
		"DELETE FROM delivery_cash_deposit",
		"DELETE FROM delivery_expected_amount",
		"DELETE FROM delivery_vehicle_empty_stock",
		"DELETE FROM delivery_issues",
		"DELETE FROM daily_stock_summary",
		"DELETE FROM stock_days",
		"ALTER SEQUENCE stock_days_stock_day_id_seq RESTART WITH 1",
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("Failed to run %q: %v\n", stmt, err)
		}
	}

	fmt.Println("Database reset complete.")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
