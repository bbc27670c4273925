package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/leftovers-app/leftovers/internal/geo"
	"github.com/leftovers-app/leftovers/internal/model"
)

var (
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrInvalidCoordinate = errors.New("latitude must be in [-90,90] and longitude in [-180,180]")
	ErrInvalidRadius     = errors.New("radius must be greater than 0")
)

// ClaimStatus distinguishes the two successful claim outcomes. Losing the
// race is an expected result, not an error.
type ClaimStatus string

const (
	StatusClaimed        ClaimStatus = "claimed"
	StatusAlreadyClaimed ClaimStatus = "already_claimed"
)

// ListingStore is the persistence contract the service needs. GetForUpdate
// must hold an exclusive per-item lock for the rest of the RunAtomic scope.
type ListingStore interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
	Save(ctx context.Context, item model.FoodItem) (model.FoodItem, error)
	FindByID(ctx context.Context, id int64) (model.FoodItem, error)
	FindAvailable(ctx context.Context) ([]model.FoodItem, error)
	GetForUpdate(ctx context.Context, id int64) (model.FoodItem, error)
	MarkClaimed(ctx context.Context, id int64) error
}

type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
}

type ListingService struct {
	store ListingStore
	users UserStore
	now   func() time.Time
}

func NewListingService(store ListingStore, users UserStore) *ListingService {
	return &ListingService{
		store: store,
		users: users,
		now:   time.Now,
	}
}

// CreateListing validates and persists a new item. The returned item carries
// the id assigned by the store.
func (s *ListingService) CreateListing(ctx context.Context, title, description string, lat, lon float64, userID int64) (model.FoodItem, error) {
	if strings.TrimSpace(title) == "" {
		return model.FoodItem{}, ErrEmptyTitle
	}
	if !geo.IsValidCoordinate(lat, lon) {
		return model.FoodItem{}, ErrInvalidCoordinate
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return model.FoodItem{}, err
	}

	item := model.FoodItem{
		Title:       title,
		Description: description,
		Latitude:    lat,
		Longitude:   lon,
		PostedAt:    s.now().UTC(),
		Available:   true,
		UserID:      userID,
	}
	return s.store.Save(ctx, item)
}

// FindNearby returns the available items within radiusKm of the center,
// in the store's snapshot order.
func (s *ListingService) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]model.FoodItem, error) {
	if !geo.IsValidCoordinate(lat, lon) {
		return nil, ErrInvalidCoordinate
	}
	if radiusKm <= 0 {
		return nil, ErrInvalidRadius
	}

	items, err := s.store.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return filterNearby(lat, lon, radiusKm, items), nil
}

// Claim flips the item from available to claimed. The read-check-write runs
// under the store's per-item exclusive lock, so of N concurrent claims on
// one item exactly one sees Available and wins; the rest observe
// StatusAlreadyClaimed. Claims on different items do not contend.
func (s *ListingService) Claim(ctx context.Context, itemID int64) (ClaimStatus, error) {
	var status ClaimStatus
	err := s.store.RunAtomic(ctx, func(ctx context.Context) error {
		item, err := s.store.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if !item.Available {
			status = StatusAlreadyClaimed
			return nil
		}
		if err := s.store.MarkClaimed(ctx, itemID); err != nil {
			return err
		}
		status = StatusClaimed
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}
