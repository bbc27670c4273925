package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/leftovers-app/leftovers/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("Unable to connect to database: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		t.Fatalf("Unable to ping database: %v", err)
	}

	schema, err := os.ReadFile("../../schema.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return pool
}

func TestEnsure_Idempotent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	email := uuid.NewString() + "@example.com"

	first, err := repo.Ensure(context.Background(), email, "Bootstrap User")
	if err != nil {
		t.Fatalf("First ensure failed: %v", err)
	}

	second, err := repo.Ensure(context.Background(), email, "Bootstrap User")
	if err != nil {
		t.Fatalf("Second ensure failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected both calls to resolve to one row, got ids %d and %d", first.ID, second.ID)
	}
}

func TestEnsure_ConcurrentBootstrap(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	email := uuid.NewString() + "@example.com"

	// Racing bootstraps must converge on a single row.
	ids := make(chan int64, 10)
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			u, err := repo.Ensure(context.Background(), email, "Bootstrap User")
			if err != nil {
				return err
			}
			ids <- u.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent ensure failed: %v", err)
	}
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Errorf("Expected one user row, saw ids %v", seen)
	}

	var count int
	pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM users WHERE email = $1", email).Scan(&count)
	if count != 1 {
		t.Errorf("Expected 1 row for %s, got %d", email, count)
	}
}
