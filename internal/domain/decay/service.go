package decay

import (
	"time"

	"github.com/cafflog/cafflog-api/internal/domain"
)

// Snapshot describes the estimated residual caffeine at a single instant.
// DoseCount is the number of entries the estimate was computed over,
// including entries that no longer contribute measurably.
type Snapshot struct {
	AsOf       time.Time `json:"as_of"`
	ResidualMg float64   `json:"residual_mg"`
	Level      Level     `json:"level"`
	DoseCount  int       `json:"dose_count"`
}

// Service defines the interface for residual caffeine estimation
type Service interface {
	// EstimateResidual computes the total residual caffeine in milligrams
	// across all entries at the given instant. A nil or empty entry list
	// yields zero.
	EstimateResidual(entries []domain.DoseEntry, now time.Time) float64

	// Snapshot computes the residual and its severity level at the given
	// instant.
	Snapshot(entries []domain.DoseEntry, now time.Time) Snapshot
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new estimation service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new estimation service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// EstimateResidual implements the Service interface for residual computation
func (s *defaultService) EstimateResidual(entries []domain.DoseEntry, now time.Time) float64 {
	return estimateResidual(entries, now, s.params)
}

// Snapshot implements the Service interface for combined residual and level
func (s *defaultService) Snapshot(entries []domain.DoseEntry, now time.Time) Snapshot {
	residual := estimateResidual(entries, now, s.params)

	return Snapshot{
		AsOf:       now,
		ResidualMg: residual,
		Level:      levelFor(residual, s.params),
		DoseCount:  len(entries),
	}
}
