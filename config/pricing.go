package config

import (
	"log"

	"github.com/spf13/viper"
)

// ServiceRate describes how a single service type is priced: a flat base
// plus a per-square-meter component for both price and duration.
type ServiceRate struct {
	BasePrice     float64 `mapstructure:"base_price"`
	BaseDuration  int     `mapstructure:"base_duration"`
	PricePerSqm   float64 `mapstructure:"price_per_sqm"`
	MinutesPerSqm float64 `mapstructure:"minutes_per_sqm"`
}

// PricingConfig is the operator-tunable pricing table. It is loaded from the
// same config file / environment as the rest of AppConfig so rates can be
// retuned without redeploying logic.
type PricingConfig struct {
	Currency              string                 `mapstructure:"currency"`
	Rates                 map[string]ServiceRate `mapstructure:"rates"`
	DifficultyMultipliers map[string]float64     `mapstructure:"difficulty_multipliers"`
}

// Pricing holds the active pricing table.
var Pricing PricingConfig

func setPricingDefaults() {
	viper.SetDefault("pricing.currency", "ARS")

	// Base rates per service type; per-sqm components default to 1% of the
	// base, matching the launch tariff.
	viper.SetDefault("pricing.rates.grass_cutting.base_price", 500.0)
	viper.SetDefault("pricing.rates.grass_cutting.base_duration", 30)
	viper.SetDefault("pricing.rates.grass_cutting.price_per_sqm", 5.0)
	viper.SetDefault("pricing.rates.grass_cutting.minutes_per_sqm", 0.3)

	viper.SetDefault("pricing.rates.pruning.base_price", 800.0)
	viper.SetDefault("pricing.rates.pruning.base_duration", 45)
	viper.SetDefault("pricing.rates.pruning.price_per_sqm", 8.0)
	viper.SetDefault("pricing.rates.pruning.minutes_per_sqm", 0.45)

	viper.SetDefault("pricing.rates.cleaning.base_price", 400.0)
	viper.SetDefault("pricing.rates.cleaning.base_duration", 60)
	viper.SetDefault("pricing.rates.cleaning.price_per_sqm", 4.0)
	viper.SetDefault("pricing.rates.cleaning.minutes_per_sqm", 0.6)

	viper.SetDefault("pricing.rates.maintenance.base_price", 1000.0)
	viper.SetDefault("pricing.rates.maintenance.base_duration", 90)
	viper.SetDefault("pricing.rates.maintenance.price_per_sqm", 10.0)
	viper.SetDefault("pricing.rates.maintenance.minutes_per_sqm", 0.9)

	viper.SetDefault("pricing.difficulty_multipliers.easy", 1.0)
	viper.SetDefault("pricing.difficulty_multipliers.medium", 1.3)
	viper.SetDefault("pricing.difficulty_multipliers.hard", 1.6)
}

func loadPricingConfig() {
	if err := viper.UnmarshalKey("pricing", &Pricing); err != nil {
		log.Fatalf("Failed to load pricing config: %v", err)
	}
}
