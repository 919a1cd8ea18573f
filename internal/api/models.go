package api

import (
	"time"

	"github.com/google/uuid"
)

// Request and response payloads for the API endpoints. Dose entries and
// residual snapshots serialize their domain types directly; only payloads
// with transport-specific shape live here.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse defines the successful response for the registration,
// login, and refresh endpoints.
type AuthResponse struct {
	// UserID is the unique identifier of the authenticated user.
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used to authorize API requests.
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT used to obtain a new token pair once the
	// access token expires.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is when the access token expires.
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateDoseRequest defines the payload for logging a caffeine dose. The
// date and time use the same wall-clock formats the tracker displays:
// MM/DD and 24-hour HH:MM, with no year.
type CreateDoseRequest struct {
	DoseDate string  `json:"dose_date" validate:"required,dosedate"`
	DoseTime string  `json:"dose_time" validate:"required,dosetime"`
	AmountMg float64 `json:"amount_mg" validate:"required,gt=0"`
}

// DrinkEstimateRequest defines the payload for the drink estimation
// endpoint.
type DrinkEstimateRequest struct {
	// Description is free text describing the drink to estimate, such as
	// "large cold brew" or "two shots of espresso".
	Description string `json:"description" validate:"required,max=500"`
}

// DrinkEstimateResponse defines the successful response for the drink
// estimation endpoint. The dose date and time are prefilled with the
// current wall-clock instant so the client can submit the suggestion as a
// dose entry without further formatting.
type DrinkEstimateResponse struct {
	Drink       string  `json:"drink"`
	EstimatedMg float64 `json:"estimated_mg"`
	DoseDate    string  `json:"dose_date"`
	DoseTime    string  `json:"dose_time"`
}
