package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev" // Default to dev
	}

	var prefix string
	switch env {
	case "prod":
		prefix = "prod_"
	case "test":
		prefix = "test_"
	default:
		prefix = "dev_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Drop all tables with environment-specific prefix, dependents first
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %scomment_flags CASCADE;
		DROP TABLE IF EXISTS %scomment_votes CASCADE;
		DROP TABLE IF EXISTS %scomments CASCADE;
		DROP TABLE IF EXISTS %sarticles CASCADE;
		DROP TABLE IF EXISTS %susers CASCADE;
	`, prefix, prefix, prefix, prefix, prefix)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
}
