package main

import (
	"context"
	"flag"
	"log"

	"tribune/internal/config"
	"tribune/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sample data")
	clearData := flag.Bool("clear-data", false, "Clear all comments, votes, and flags (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	// Exit early if schema-only mode
	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("🧹 Clearing existing comments, votes, and flags...")
		if err := clearCommentData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Seed sample users, articles, and a small comment thread
	log.Println("📝 Seeding sample data...")
	if err := seedSampleData(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to seed data: %v", err)
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create users table
	createUsers := `
		CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createUsers); err != nil {
		return err
	}

	// Create articles table
	createArticles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Articles + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createArticles); err != nil {
		return err
	}

	// Create comments table. parent_id is self-referential; true_depth is
	// stored exactly, with no cap.
	createComments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Comments + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			author_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES ` + tables.Comments + `(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			true_depth INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			edited_at TIMESTAMPTZ,
			is_edited BOOLEAN NOT NULL DEFAULT FALSE,
			is_removed_by_moderator BOOLEAN NOT NULL DEFAULT FALSE,
			is_deleted_by_author BOOLEAN NOT NULL DEFAULT FALSE,
			is_approved BOOLEAN NOT NULL DEFAULT TRUE,
			cached_score INTEGER NOT NULL DEFAULT 0
		)
	`
	if _, err := pool.Exec(ctx, createComments); err != nil {
		return err
	}

	// Create votes table. One live vote per (comment, author); value is
	// constrained to the two storable directions.
	createVotes := `
		CREATE TABLE IF NOT EXISTS ` + tables.Votes + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			comment_id UUID NOT NULL REFERENCES ` + tables.Comments + `(id) ON DELETE CASCADE,
			author_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			value INTEGER NOT NULL CHECK (value IN (-1, 1)),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(comment_id, author_id)
		)
	`
	if _, err := pool.Exec(ctx, createVotes); err != nil {
		return err
	}

	// Create flags table. Re-flagging upserts on (comment, reporter).
	createFlags := `
		CREATE TABLE IF NOT EXISTS ` + tables.Flags + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			comment_id UUID NOT NULL REFERENCES ` + tables.Comments + `(id) ON DELETE CASCADE,
			reporter_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			reason TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(comment_id, reporter_id)
		)
	`
	if _, err := pool.Exec(ctx, createFlags); err != nil {
		return err
	}

	// Create indexes. The listing index matches the composite sort key so
	// page reads stay index-only.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `comments_article_listing ON ` + tables.Comments + `(article_id, cached_score DESC, created_at DESC, id DESC) WHERE parent_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `comments_parent ON ` + tables.Comments + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `votes_author ON ` + tables.Votes + `(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `flags_comment ON ` + tables.Flags + `(comment_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Flags,
		tables.Votes,
		tables.Comments,
		tables.Articles,
		tables.Users,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearCommentData clears comments and their dependents but keeps users
// and articles
func clearCommentData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Flags, tables.Votes, tables.Comments} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// seedSampleData inserts a couple of users, one article, and a small
// thread so a fresh dev environment has something to render.
func seedSampleData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	users := []struct {
		username string
		email    string
		isStaff  bool
	}{
		{"alice", "alice@example.com", false},
		{"bob", "bob@example.com", false},
		{"carol", "carol@example.com", true},
	}

	userIDs := make(map[string]string, len(users))
	for _, u := range users {
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO `+tables.Users+` (username, email, is_staff)
			VALUES ($1, $2, $3)
			ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
			RETURNING id
		`, u.username, u.email, u.isStaff).Scan(&id)
		if err != nil {
			return err
		}
		userIDs[u.username] = id
		log.Printf("  ✓ User %s (%s)", u.username, id)
	}

	var articleID string
	err := pool.QueryRow(ctx, `
		INSERT INTO `+tables.Articles+` (title, url, source)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "Go 1.25 released", "https://go.dev/blog/go1.25", "go.dev").Scan(&articleID)
	if err != nil {
		return err
	}
	log.Printf("  ✓ Article %s", articleID)

	var rootID string
	err = pool.QueryRow(ctx, `
		INSERT INTO `+tables.Comments+` (article_id, author_id, content, true_depth)
		VALUES ($1, $2, $3, 0)
		RETURNING id
	`, articleID, userIDs["alice"], "The new GC knobs look promising.").Scan(&rootID)
	if err != nil {
		return err
	}

	var replyID string
	err = pool.QueryRow(ctx, `
		INSERT INTO `+tables.Comments+` (article_id, author_id, parent_id, content, true_depth)
		VALUES ($1, $2, $3, $4, 1)
		RETURNING id
	`, articleID, userIDs["bob"], rootID, "Benchmarked it this morning, tail latencies dropped noticeably.").Scan(&replyID)
	if err != nil {
		return err
	}

	// A vote from carol on the root, with the cached score kept in step.
	if _, err := pool.Exec(ctx, `
		INSERT INTO `+tables.Votes+` (comment_id, author_id, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (comment_id, author_id) DO NOTHING
	`, rootID, userIDs["carol"]); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
		UPDATE `+tables.Comments+` SET cached_score = cached_score + 1 WHERE id = $1
	`, rootID); err != nil {
		return err
	}

	log.Printf("  ✓ Thread %s with reply %s", rootID, replyID)
	return nil
}
