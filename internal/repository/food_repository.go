package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leftovers-app/leftovers/internal/model"
)

type FoodItemRepository struct {
	db *pgxpool.Pool
}

func NewFoodItemRepository(db *pgxpool.Pool) *FoodItemRepository {
	return &FoodItemRepository{db: db}
}

// PgxExecutor matches both *pgxpool.Pool and pgx.Tx, so queries run against
// the transaction when one is in the context and the pool otherwise.
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// RunAtomic executes fn inside a transaction. Queries issued through this
// repository within fn use the transaction's connection, so row locks taken
// by GetForUpdate hold until commit or rollback.
func (r *FoodItemRepository) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op if the commit below succeeds.
	defer tx.Rollback(ctx)

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *FoodItemRepository) getExecutor(ctx context.Context) PgxExecutor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

// Save inserts the item and returns it with its assigned id.
func (r *FoodItemRepository) Save(ctx context.Context, item model.FoodItem) (model.FoodItem, error) {
	err := r.getExecutor(ctx).QueryRow(ctx,
		`INSERT INTO food_items (title, description, latitude, longitude, posted_at, available, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		item.Title, item.Description, item.Latitude, item.Longitude, item.PostedAt, item.Available, item.UserID,
	).Scan(&item.ID)
	if err != nil {
		return model.FoodItem{}, fmt.Errorf("failed to save food item: %w", err)
	}
	return item, nil
}

func (r *FoodItemRepository) FindByID(ctx context.Context, id int64) (model.FoodItem, error) {
	var item model.FoodItem
	err := r.getExecutor(ctx).QueryRow(ctx,
		`SELECT id, title, description, latitude, longitude, posted_at, available, user_id
		 FROM food_items WHERE id = $1`, id,
	).Scan(&item.ID, &item.Title, &item.Description, &item.Latitude, &item.Longitude,
		&item.PostedAt, &item.Available, &item.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.FoodItem{}, model.ErrItemNotFound
		}
		return model.FoodItem{}, fmt.Errorf("failed to get food item: %w", err)
	}
	return item, nil
}

// FindAvailable returns a snapshot of all currently available items.
// Ordering is newest-first with id as a tiebreak, so a fixed data set
// always yields the same sequence.
func (r *FoodItemRepository) FindAvailable(ctx context.Context) ([]model.FoodItem, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		`SELECT id, title, description, latitude, longitude, posted_at, available, user_id
		 FROM food_items WHERE available ORDER BY posted_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list available food items: %w", err)
	}
	defer rows.Close()

	var items []model.FoodItem
	for rows.Next() {
		var item model.FoodItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Latitude, &item.Longitude,
			&item.PostedAt, &item.Available, &item.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read food items: %w", err)
	}
	return items, nil
}

// GetForUpdate locks the item's row and returns it. Must be called inside
// RunAtomic; the lock is per-row and released when the transaction ends.
func (r *FoodItemRepository) GetForUpdate(ctx context.Context, id int64) (model.FoodItem, error) {
	var item model.FoodItem
	err := r.getExecutor(ctx).QueryRow(ctx,
		`SELECT id, title, description, latitude, longitude, posted_at, available, user_id
		 FROM food_items WHERE id = $1 FOR UPDATE`, id,
	).Scan(&item.ID, &item.Title, &item.Description, &item.Latitude, &item.Longitude,
		&item.PostedAt, &item.Available, &item.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.FoodItem{}, model.ErrItemNotFound
		}
		return model.FoodItem{}, fmt.Errorf("failed to lock food item: %w", err)
	}
	return item, nil
}

// MarkClaimed flips the item to unavailable.
func (r *FoodItemRepository) MarkClaimed(ctx context.Context, id int64) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"UPDATE food_items SET available = FALSE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark food item claimed: %w", err)
	}
	return nil
}
