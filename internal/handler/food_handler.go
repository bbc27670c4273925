package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leftovers-app/leftovers/internal/model"
	"github.com/leftovers-app/leftovers/internal/service"
	"github.com/leftovers-app/leftovers/internal/service/geocode"
)

type FoodHandler struct {
	svc             *service.ListingService
	geocoder        *geocode.Client // nil when no geocoder is configured
	defaultRadiusKm float64
}

func NewFoodHandler(svc *service.ListingService, geocoder *geocode.Client, defaultRadiusKm float64) *FoodHandler {
	return &FoodHandler{
		svc:             svc,
		geocoder:        geocoder,
		defaultRadiusKm: defaultRadiusKm,
	}
}

type CreateListingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	UserID      int64   `json:"user_id"`
}

type NearbyItem struct {
	model.FoodItem
	Place string `json:"place,omitempty"`
}

type ClaimResponse struct {
	Status service.ClaimStatus `json:"status"`
}

func (h *FoodHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.svc.CreateListing(r.Context(), req.Title, req.Description, req.Latitude, req.Longitude, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTitle), errors.Is(err, service.ErrInvalidCoordinate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, model.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func (h *FoodHandler) FindNearby(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		http.Error(w, "lat must be a number", http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		http.Error(w, "lon must be a number", http.StatusBadRequest)
		return
	}

	radiusKm := h.defaultRadiusKm
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "radius_km must be a number", http.StatusBadRequest)
			return
		}
	}

	items, err := h.svc.FindNearby(r.Context(), lat, lon, radiusKm)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCoordinate), errors.Is(err, service.ErrInvalidRadius):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	result := make([]NearbyItem, len(items))
	for i, item := range items {
		result[i] = NearbyItem{FoodItem: item}
	}

	// Place names are decoration; a geocoder failure leaves them empty.
	if h.geocoder != nil && len(items) > 0 {
		coords := make([][2]float64, len(items))
		for i, item := range items {
			coords[i] = [2]float64{item.Latitude, item.Longitude}
		}
		for i, name := range h.geocoder.Places(r.Context(), coords) {
			result[i].Place = name
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *FoodHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	status, err := h.svc.Claim(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrItemNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ClaimResponse{Status: status})
}
