// Creates or updates an admin user. The seed migrations cannot insert one
// because password hashes are generated at runtime.
//
// Usage: go run ./scripts/create_admin -username admin -password <password>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/auth"
)

func main() {
	username := flag.String("username", "admin", "username for the admin account")
	password := flag.String("password", "", "password for the admin account (required)")
	fullName := flag.String("full-name", "Administrator", "display name")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
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

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v\n", err)
	}

	_, err = pool.Exec(context.Background(), `
		INSERT INTO users (username, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, 'ADMIN', TRUE)
		ON CONFLICT (username)
		DO UPDATE SET password_hash = EXCLUDED.password_hash,
		              full_name = EXCLUDED.full_name,
		              is_active = TRUE
	`, *username, *fullName, hash)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v\n", err)
	}

	fmt.Printf("Admin user %q is ready.\n", *username)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
