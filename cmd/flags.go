package cmd

import (
	"github.com/spf13/pflag"

	"zillow-wholesale/config"
)

// strategyFlags override individual search strategy fields. Only flags the
// user actually set are applied, so presets and YAML overlays survive.
type strategyFlags struct {
	county      string
	zip         string
	state       string
	radius      int
	roi         float64
	maxResults  int
	minDOM      int
	financed    bool
	selfManaged bool
	fee         float64
	down        float64
}

func (f *strategyFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.county, "county", "", "search a county, e.g. Wake")
	fs.StringVar(&f.zip, "zip", "", "search around a zip code instead of a county")
	fs.StringVar(&f.state, "state", "", "two-letter state code")
	fs.IntVar(&f.radius, "radius", 0, "search radius in miles")
	fs.Float64Var(&f.roi, "roi", 0, "target ROI in percent")
	fs.IntVar(&f.maxResults, "max-results", 0, "maximum listings to fetch")
	fs.IntVar(&f.minDOM, "min-dom", 0, "minimum days on market")
	fs.BoolVar(&f.financed, "financed", false, "assume a financed purchase")
	fs.BoolVar(&f.selfManaged, "self-managed", false, "assume no management fee")
	fs.Float64Var(&f.fee, "management-fee", 0, "custom management fee in percent")
	fs.Float64Var(&f.down, "down-payment", 0, "custom down payment in percent")
}

func (f *strategyFlags) apply(fs *pflag.FlagSet, cfg config.SearchConfig) config.SearchConfig {
	cfg = cfg.Clone()

	if fs.Changed("county") {
		cfg.Location.UseCounty, cfg.Location.UseZip = true, false
		cfg.Location.County = f.county
	}
	if fs.Changed("zip") {
		cfg.Location.UseCounty, cfg.Location.UseZip = false, true
		cfg.Location.ZipCode = f.zip
	}
	if fs.Changed("state") {
		cfg.Location.State = f.state
	}
	if fs.Changed("radius") {
		r := f.radius
		cfg.Location.CustomRadius = &r
	}
	if fs.Changed("roi") {
		cfg.TargetROI = f.roi
	}
	if fs.Changed("max-results") {
		cfg.MaxResults = f.maxResults
	}
	if fs.Changed("min-dom") {
		cfg.MinDaysOnMarket = f.minDOM
	}
	if fs.Changed("financed") {
		cfg.Investment.FinancedPurchase = f.financed
		cfg.Investment.CashPurchase = !f.financed
	}
	if fs.Changed("self-managed") {
		cfg.Management.SelfManaged = f.selfManaged
		cfg.Management.PropertyManaged = !f.selfManaged
	}
	if fs.Changed("management-fee") {
		fee := f.fee
		cfg.Management.UseDefaultFee = false
		cfg.Management.CustomFee = &fee
	}
	if fs.Changed("down-payment") {
		down := f.down
		cfg.Investment.UseDefaultDown = false
		cfg.Investment.CustomDown = &down
	}
	return cfg
}

// optionalFloat returns nil unless the named flag was set.
func optionalFloat(fs *pflag.FlagSet, name string) (*float64, error) {
	if !fs.Changed(name) {
		return nil, nil
	}
	v, err := fs.GetFloat64(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
