package mocks

import (
	"context"

	"github.com/cafflog/cafflog-api/internal/catalog"
)

// MockDrinkEstimator implements catalog.DrinkEstimator for testing
type MockDrinkEstimator struct {
	// EstimateDrinkFn allows test cases to mock the EstimateDrink behavior
	EstimateDrinkFn func(ctx context.Context, description string) (*catalog.DrinkEstimate, error)

	// Default values used when EstimateDrinkFn isn't defined
	Estimate *catalog.DrinkEstimate
	Err      error
}

// EstimateDrink implements the catalog.DrinkEstimator interface
func (m *MockDrinkEstimator) EstimateDrink(
	ctx context.Context,
	description string,
) (*catalog.DrinkEstimate, error) {
	if m.EstimateDrinkFn != nil {
		return m.EstimateDrinkFn(ctx, description)
	}
	return m.Estimate, m.Err
}
