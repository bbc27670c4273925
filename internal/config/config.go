package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	DatabaseURL     string
	DefaultRadiusKm float64

	// Optional seed user created at startup so the app is usable
	// without a signup flow.
	DefaultUserEmail string
	DefaultUserName  string

	Geocoder struct {
		APIURL    string
		UserAgent string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	defaultRadiusKm := 10.0
	if raw := os.Getenv("DEFAULT_RADIUS_KM"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("DEFAULT_RADIUS_KM must be a positive number, got %q", raw)
		}
		defaultRadiusKm = parsed
	}

	cfg := &Config{
		ServerPort:       serverPort,
		DatabaseURL:      databaseURL,
		DefaultRadiusKm:  defaultRadiusKm,
		DefaultUserEmail: os.Getenv("DEFAULT_USER_EMAIL"),
		DefaultUserName:  os.Getenv("DEFAULT_USER_NAME"),
	}

	// Geocoding is optional; leaving GEOCODER_API_URL unset disables it.
	cfg.Geocoder.APIURL = os.Getenv("GEOCODER_API_URL")
	cfg.Geocoder.UserAgent = os.Getenv("GEOCODER_USER_AGENT")
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = "leftovers/1.0"
	}

	return cfg, nil
}
