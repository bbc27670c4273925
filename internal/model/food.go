package model

import (
	"errors"
	"time"
)

var (
	ErrItemNotFound = errors.New("food item not found")
	ErrUserNotFound = errors.New("user not found")
)

// FoodItem is a posted listing. Everything except Available is write-once
// at creation; Available flips true->false exactly once when claimed.
type FoodItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	PostedAt    time.Time `json:"posted_at"`
	Available   bool      `json:"available"`
	UserID      int64     `json:"user_id"`
}

type User struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
