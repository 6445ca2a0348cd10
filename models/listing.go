package models

import "time"

// Raw field keys produced by the fetch collaborator.
const (
	FieldAddress      = "address"
	FieldPrice        = "price"
	FieldBedrooms     = "bedrooms"
	FieldBathrooms    = "bathrooms"
	FieldSquareFeet   = "square_feet"
	FieldDaysOnMarket = "days_on_market"
	FieldURL          = "url"
	FieldScrapedDate  = "scraped_date"
)

// Sentinels substituted for missing or malformed fields.
const (
	NotAvailable = "N/A"
	Unknown      = "Unknown"
)

// RawListing holds one property card exactly as extracted from the page.
// Any key may be missing and any value may be malformed.
type RawListing map[string]string

// Action is the recommended next step for a listing.
type Action string

const (
	ActionCallToday    Action = "CALL TODAY - Strong opportunity"
	ActionCallThisWeek Action = "CALL THIS WEEK - Good potential"
	ActionResearchMore Action = "RESEARCH MORE - Gather intel"
)

// Actions lists every action from most to least urgent.
var Actions = []Action{ActionCallToday, ActionCallThisWeek, ActionResearchMore}

// IsValid checks if an action is recognized.
func (a Action) IsValid() bool {
	for _, v := range Actions {
		if a == v {
			return true
		}
	}
	return false
}

// Label returns the short label before the dash, e.g. "CALL TODAY".
func (a Action) Label() string {
	switch a {
	case ActionCallToday:
		return "CALL TODAY"
	case ActionCallThisWeek:
		return "CALL THIS WEEK"
	case ActionResearchMore:
		return "RESEARCH MORE"
	default:
		return string(a)
	}
}

// Listing is a normalised property record. The scoring fields are empty until
// the listing has been scored.
type Listing struct {
	Address      string    `db:"address" json:"address"`
	Price        string    `db:"price" json:"price"`
	Bedrooms     string    `db:"bedrooms" json:"bedrooms"`
	Bathrooms    string    `db:"bathrooms" json:"bathrooms"`
	SquareFeet   string    `db:"square_feet" json:"square_feet"`
	DaysOnMarket string    `db:"days_on_market" json:"days_on_market"`
	URL          string    `db:"url" json:"url"`
	ScrapedDate  time.Time `db:"scraped_date" json:"scraped_date"`

	OpportunityScore  int    `db:"opportunity_score" json:"opportunity_score"`
	RecommendedAction Action `db:"recommended_action" json:"recommended_action"`
	AnalysisNotes     string `db:"analysis_notes" json:"analysis_notes"`

	// Bookkeeping, not part of the call sheet.
	SessionID     string   `db:"session_id" json:"session_id,omitempty"`
	Position      int      `db:"position" json:"position"`
	PriceValue    float64  `db:"price_value" json:"price_value"`
	MissingFields []string `db:"-" json:"missing_fields,omitempty"`
}

// CallSheetReport summarises an analysed batch.
type CallSheetReport struct {
	TotalListings    int
	ActionCounts     map[Action]int
	AverageScore     float64
	PricedListings   int
	AveragePrice     float64
	MinPrice         float64
	MaxPrice         float64
	TopOpportunities []*Listing
	ByDaysOnMarket   map[string]int
	IncompleteRecord int
}
