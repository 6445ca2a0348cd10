package services

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"zillow-wholesale/config"
)

var (
	operatingExpenseShare = decimal.NewFromFloat(0.5)
	monthsPerYear         = decimal.NewFromInt(12)
	hundred               = decimal.NewFromInt(100)
	negotiationBuffer     = decimal.NewFromFloat(0.85)
	priceFloorShare       = decimal.NewFromFloat(0.4)
)

// CalculatePriceRange derives the listing price bounds that hit cfg's target
// ROI for a property renting at avgMonthlyRent. Half of net rent is assumed
// to go to operating expenses; max keeps a 15% negotiation buffer and min
// sits at 40% of the implied price.
func CalculatePriceRange(cfg config.SearchConfig, avgMonthlyRent float64) (config.PriceRange, error) {
	if !finite(avgMonthlyRent) || avgMonthlyRent < 0 {
		return config.PriceRange{}, fmt.Errorf("%w: average monthly rent must be a non-negative number, got %v",
			config.ErrInvalidConfiguration, avgMonthlyRent)
	}
	if !finite(cfg.TargetROI) || cfg.TargetROI <= 0 {
		return config.PriceRange{}, fmt.Errorf("%w: target ROI must be a positive number, got %v",
			config.ErrInvalidConfiguration, cfg.TargetROI)
	}

	feeRate := cfg.Management.FeeRate()
	if !finite(feeRate) || feeRate < 0 || feeRate > 1 {
		return config.PriceRange{}, fmt.Errorf("%w: management fee rate %v outside [0, 1]",
			config.ErrInvalidConfiguration, feeRate)
	}

	netRent := decimal.NewFromFloat(avgMonthlyRent).Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(feeRate)))
	monthlyNOI := netRent.Mul(operatingExpenseShare)
	annualNOI := monthlyNOI.Mul(monthsPerYear)
	roi := decimal.NewFromFloat(cfg.TargetROI).Div(hundred)

	implied := annualNOI.Div(roi)
	if !cfg.Investment.CashPurchase {
		down := cfg.Investment.DownPaymentRate()
		if !finite(down) || down <= 0 || down > 1 {
			return config.PriceRange{}, fmt.Errorf("%w: down payment rate %v outside (0, 1]",
				config.ErrInvalidConfiguration, down)
		}
		implied = implied.Div(decimal.NewFromFloat(down))
	}

	return config.PriceRange{
		Min: implied.Mul(priceFloorShare).Floor().IntPart(),
		Max: implied.Mul(negotiationBuffer).Floor().IntPart(),
	}, nil
}

// finite reports whether v can be carried as a decimal.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ResolvePriceRange returns a copy of cfg carrying the calculated range.
func ResolvePriceRange(cfg config.SearchConfig, avgMonthlyRent float64) (config.SearchConfig, error) {
	r, err := CalculatePriceRange(cfg, avgMonthlyRent)
	if err != nil {
		return cfg, err
	}
	return cfg.WithPriceRange(r), nil
}
