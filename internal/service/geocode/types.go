package geocode

import (
	"fmt"
)

// RawPlace is the subset of the reverse-geocoding response we consume.
type RawPlace struct {
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

type ErrorResponse struct {
	Message string `json:"error"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("geocoder api error: %s", e.Message)
}
