package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/ConteMartin/PASTO/config"
	"github.com/ConteMartin/PASTO/models"
)

// ErrInvalidInput signals malformed or out-of-range estimation parameters.
// Always caller-correctable, never retried.
var ErrInvalidInput = errors.New("invalid pricing input")

// Estimator maps service parameters to a price/duration quote.
type Estimator interface {
	Estimate(serviceType string, width, length float64, difficulty *string) (models.PriceQuote, error)
}

// ConfigEstimator is a pure, deterministic estimator driven by the pricing
// table in config. Identical inputs always yield the identical quote, so
// the quote shown at preview time matches the price frozen at creation.
type ConfigEstimator struct {
	cfg config.PricingConfig
}

// NewEstimator builds an estimator over the given pricing table.
func NewEstimator(cfg config.PricingConfig) *ConfigEstimator {
	return &ConfigEstimator{cfg: cfg}
}

// Estimate computes the quote for a terrain of width x length meters.
// Price and duration are monotonically non-decreasing in area; pruning
// additionally scales with the difficulty tier.
func (e *ConfigEstimator) Estimate(serviceType string, width, length float64, difficulty *string) (models.PriceQuote, error) {
	if width <= 0 || length <= 0 {
		return models.PriceQuote{}, fmt.Errorf("%w: terrain dimensions must be positive", ErrInvalidInput)
	}

	rate, ok := e.cfg.Rates[serviceType]
	if !ok {
		return models.PriceQuote{}, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, serviceType)
	}

	multiplier := 1.0
	if serviceType == models.ServicePruning {
		if difficulty == nil {
			return models.PriceQuote{}, fmt.Errorf("%w: pruning requires a difficulty", ErrInvalidInput)
		}
		m, ok := e.cfg.DifficultyMultipliers[*difficulty]
		if !ok {
			return models.PriceQuote{}, fmt.Errorf("%w: unknown pruning difficulty %q", ErrInvalidInput, *difficulty)
		}
		multiplier = m
	}

	area := width * length
	price := (rate.BasePrice + area*rate.PricePerSqm) * multiplier
	duration := (float64(rate.BaseDuration) + area*rate.MinutesPerSqm) * multiplier

	return models.PriceQuote{
		ServiceType:       serviceType,
		TerrainArea:       area,
		EstimatedPrice:    math.Round(price*100) / 100,
		EstimatedDuration: int(duration),
		Currency:          e.cfg.Currency,
	}, nil
}
