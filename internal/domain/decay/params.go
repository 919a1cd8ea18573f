package decay

import "time"

// Params defines all configurable parameters for the residual caffeine model
type Params struct {
	// HalfLife is the time it takes an absorbed dose to fall to half its
	// amount. The model is continuous first-order decay.
	HalfLife time.Duration

	// Thresholds map residual milligrams to severity levels. They are
	// evaluated in descending order and matched with a strict greater-than;
	// residuals at or below every threshold classify as LevelMinimal.
	Thresholds []LevelThreshold
}

// LevelThreshold pairs a severity level with the exclusive lower bound of
// residual milligrams that triggers it.
type LevelThreshold struct {
	MinExclusiveMg float64
	Level          Level
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	// HalfLife overrides the default half-life when positive.
	HalfLife time.Duration
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		// Caffeine half-life of six hours
		HalfLife: 6 * time.Hour,

		// Default severity thresholds, highest first
		Thresholds: []LevelThreshold{
			{MinExclusiveMg: 200, Level: LevelVeryHigh},
			{MinExclusiveMg: 100, Level: LevelHigh},
			{MinExclusiveMg: 50, Level: LevelModerate},
			{MinExclusiveMg: 10, Level: LevelLow},
		},
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	// Override the half-life if provided
	if config.HalfLife > 0 {
		params.HalfLife = config.HalfLife
	}

	return params
}
