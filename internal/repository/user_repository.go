package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leftovers-app/leftovers/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		"SELECT id, email, name, latitude, longitude FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Latitude, &u.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		"SELECT id, email, name, latitude, longitude FROM users WHERE email = $1", email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Latitude, &u.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// Ensure inserts the user if no row with that email exists and returns the
// surviving row. The unique constraint on email means two racing calls
// converge on a single row instead of creating duplicates.
func (r *UserRepository) Ensure(ctx context.Context, email, name string) (model.User, error) {
	_, err := r.db.Exec(ctx,
		"INSERT INTO users (email, name) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING",
		email, name)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to ensure user: %w", err)
	}
	return r.FindByEmail(ctx, email)
}
