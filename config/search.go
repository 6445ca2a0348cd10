package config

import "errors"

// ErrInvalidConfiguration reports a search configuration that cannot produce a
// price range, such as a non-positive target ROI.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Location types emitted in SearchParams.
const (
	LocationCounty = "county"
	LocationZip    = "zip"
)

const (
	defaultManagementFee = 10.0
	defaultDownPayment   = 20.0
	countyRadiusMiles    = 15
	zipRadiusMiles       = 5
)

// PropertyFilter selects property types and build years.
type PropertyFilter struct {
	SingleFamily     bool `yaml:"single_family" json:"single_family"`
	SmallMultifamily bool `yaml:"small_multifamily" json:"small_multifamily"`
	AnyAge           bool `yaml:"any_age" json:"any_age"`
	BuiltAfter1980   bool `yaml:"built_after_1980" json:"built_after_1980"`
	BuiltAfter1990   bool `yaml:"built_after_1990" json:"built_after_1990"`
	BuiltAfter2000   bool `yaml:"built_after_2000" json:"built_after_2000"`
}

// MinYearBuilt returns the most restrictive build-year floor, or 0 for any age.
func (p PropertyFilter) MinYearBuilt() int {
	switch {
	case p.BuiltAfter2000:
		return 2000
	case p.BuiltAfter1990:
		return 1990
	case p.BuiltAfter1980:
		return 1980
	default:
		return 0
	}
}

// RentalStrategy describes who the property would be rented to.
type RentalStrategy struct {
	MarketRate bool `yaml:"market_rate" json:"market_rate"`
	Section8   bool `yaml:"section_8" json:"section_8"`
}

// Management describes property management terms.
type Management struct {
	PropertyManaged bool     `yaml:"property_managed" json:"property_managed"`
	SelfManaged     bool     `yaml:"self_managed" json:"self_managed"`
	UseDefaultFee   bool     `yaml:"use_default_fee" json:"use_default_fee"`
	CustomFee       *float64 `yaml:"custom_fee,omitempty" json:"custom_fee,omitempty"` // percent
}

// FeeRate is the fraction of gross rent paid to management.
func (m Management) FeeRate() float64 {
	switch {
	case m.SelfManaged:
		return 0.0
	case m.UseDefaultFee:
		return defaultManagementFee / 100
	case m.CustomFee != nil:
		return *m.CustomFee / 100
	default:
		return defaultManagementFee / 100
	}
}

// Location is the geographic search area.
type Location struct {
	InputMethod  string `yaml:"input_method" json:"input_method"` // "manual" or "import_data"
	UseCounty    bool   `yaml:"use_county" json:"use_county"`
	UseZip       bool   `yaml:"use_zip" json:"use_zip"`
	State        string `yaml:"state" json:"state"`
	County       string `yaml:"county" json:"county"`
	ZipCode      string `yaml:"zip_code" json:"zip_code"`
	CustomRadius *int   `yaml:"custom_radius,omitempty" json:"custom_radius,omitempty"` // miles
}

// Type returns LocationCounty or LocationZip.
func (l Location) Type() string {
	if l.UseCounty {
		return LocationCounty
	}
	return LocationZip
}

// RadiusMiles returns the search radius in miles.
func (l Location) RadiusMiles() int {
	if l.CustomRadius != nil && *l.CustomRadius > 0 {
		return *l.CustomRadius
	}
	if l.UseCounty {
		return countyRadiusMiles
	}
	return zipRadiusMiles
}

// Investment describes how the purchase is funded.
type Investment struct {
	CashPurchase     bool     `yaml:"cash_purchase" json:"cash_purchase"`
	FinancedPurchase bool     `yaml:"financed_purchase" json:"financed_purchase"`
	UseDefaultDown   bool     `yaml:"use_default_down" json:"use_default_down"`
	CustomDown       *float64 `yaml:"custom_down,omitempty" json:"custom_down,omitempty"` // percent
}

// DownPaymentRate is the fraction of the price paid up front.
func (i Investment) DownPaymentRate() float64 {
	switch {
	case i.CashPurchase:
		return 1.0
	case i.UseDefaultDown:
		return defaultDownPayment / 100
	case i.CustomDown != nil:
		return *i.CustomDown / 100
	default:
		return defaultDownPayment / 100
	}
}

// PriceRange is a resolved listing price bound in whole dollars.
type PriceRange struct {
	Min int64 `yaml:"min_price" json:"min_price"`
	Max int64 `yaml:"max_price" json:"max_price"`
}

// SearchConfig is the full search session configuration. It is a value type;
// the optional custom pointers are never written through, use Clone before
// decoding into a copy.
type SearchConfig struct {
	TargetROI       float64 `yaml:"target_roi" json:"target_roi"` // percent
	MaxResults      int     `yaml:"max_results" json:"max_results"`
	MinDaysOnMarket int     `yaml:"min_days_on_market" json:"min_days_on_market"`

	Property       PropertyFilter `yaml:"property" json:"property"`
	RentalStrategy RentalStrategy `yaml:"rental_strategy" json:"rental_strategy"`
	Management     Management     `yaml:"management" json:"management"`
	Location       Location       `yaml:"location" json:"location"`
	Investment     Investment     `yaml:"investment" json:"investment"`

	// PriceRange is nil until a price range has been resolved.
	PriceRange *PriceRange `yaml:"-" json:"price_range,omitempty"`
}

// DefaultSearchConfig returns a configuration with every section at its defaults.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		TargetROI:       10.0,
		MaxResults:      10,
		MinDaysOnMarket: 30,
		Property: PropertyFilter{
			SingleFamily: true,
			AnyAge:       true,
		},
		RentalStrategy: RentalStrategy{MarketRate: true},
		Management: Management{
			PropertyManaged: true,
			UseDefaultFee:   true,
		},
		Location: Location{
			InputMethod: "manual",
			UseCounty:   true,
			State:       "NC",
			County:      "Wake",
		},
		Investment: Investment{
			CashPurchase:   true,
			UseDefaultDown: true,
		},
	}
}

// Clone returns a deep copy of c.
func (c SearchConfig) Clone() SearchConfig {
	if c.Management.CustomFee != nil {
		v := *c.Management.CustomFee
		c.Management.CustomFee = &v
	}
	if c.Location.CustomRadius != nil {
		v := *c.Location.CustomRadius
		c.Location.CustomRadius = &v
	}
	if c.Investment.CustomDown != nil {
		v := *c.Investment.CustomDown
		c.Investment.CustomDown = &v
	}
	if c.PriceRange != nil {
		v := *c.PriceRange
		c.PriceRange = &v
	}
	return c
}

// WithPriceRange returns a copy of c carrying r.
func (c SearchConfig) WithPriceRange(r PriceRange) SearchConfig {
	c.PriceRange = &r
	return c
}

// PropertyTypes flags the home types to search for.
type PropertyTypes struct {
	SingleFamily bool `json:"single_family"`
	Multifamily  bool `json:"multifamily"`
}

// SearchParams is the flat parameter set handed to the fetch collaborator.
type SearchParams struct {
	LocationType    string        `json:"location_type"`
	County          string        `json:"county,omitempty"`
	ZipCode         string        `json:"zip_code,omitempty"`
	State           string        `json:"state"`
	Radius          int           `json:"radius"`
	MaxResults      int           `json:"max_results"`
	MinDaysOnMarket int           `json:"min_days_on_market"`
	PropertyTypes   PropertyTypes `json:"property_types"`
	MinYearBuilt    int           `json:"min_year_built,omitempty"`
	MinPrice        *int64        `json:"min_price,omitempty"`
	MaxPrice        *int64        `json:"max_price,omitempty"`
}

// ResolveSearchParameters flattens the configuration into SearchParams.
func (c SearchConfig) ResolveSearchParameters() SearchParams {
	p := SearchParams{
		LocationType:    c.Location.Type(),
		State:           c.Location.State,
		Radius:          c.Location.RadiusMiles(),
		MaxResults:      c.MaxResults,
		MinDaysOnMarket: c.MinDaysOnMarket,
		PropertyTypes: PropertyTypes{
			SingleFamily: c.Property.SingleFamily,
			Multifamily:  c.Property.SmallMultifamily,
		},
		MinYearBuilt: c.Property.MinYearBuilt(),
	}

	if p.LocationType == LocationCounty {
		p.County = c.Location.County
	} else {
		p.ZipCode = c.Location.ZipCode
	}

	if c.PriceRange != nil {
		lo, hi := c.PriceRange.Min, c.PriceRange.Max
		p.MinPrice = &lo
		p.MaxPrice = &hi
	}
	return p
}
