package catalog

import "context"

// DrinkEstimate is the model's best guess at the caffeine content of a
// drink described in free text.
type DrinkEstimate struct {
	// Drink is the normalized name of the drink the model recognized.
	Drink string `json:"drink"`

	// EstimatedMg is the estimated caffeine content in milligrams.
	EstimatedMg float64 `json:"estimated_mg"`
}

// DrinkEstimator defines the interface for estimating caffeine content
// from a free-text drink description. This interface is the boundary
// between the application core and the external LLM service.
type DrinkEstimator interface {
	// EstimateDrink returns a caffeine estimate for the described drink.
	// Returns ErrContentBlocked when the request trips safety filters,
	// ErrInvalidResponse when the model's answer cannot be understood,
	// and ErrEstimationFailed or ErrTransientFailure for other failures.
	EstimateDrink(ctx context.Context, description string) (*DrinkEstimate, error)
}
