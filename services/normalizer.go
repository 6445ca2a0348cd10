package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"zillow-wholesale/metrics"
	"zillow-wholesale/models"
	"zillow-wholesale/utils"
)

var (
	// priceRegexp captures a price with an optional K/M multiplier
	priceRegexp = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*([km])?`)
	// countRegexp matches a bare count such as "3" or "2.5"
	countRegexp = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

var (
	bedroomSuffixes  = []string{"bds", "bd", "beds", "bed"}
	bathroomSuffixes = []string{"ba", "baths", "bath"}
	areaSuffixes     = []string{"sqft", "sq ft", "square feet"}
)

// scrapedDateLayouts are tried in order. Exports written without a zone are
// read as UTC.
var scrapedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Normalizer turns raw field mappings into Listings, replacing missing or
// malformed fields with sentinels instead of failing.
type Normalizer struct {
	logger  *utils.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

// NewNormalizer creates a Normalizer. reg may be nil.
func NewNormalizer(logger *utils.Logger, reg *metrics.Registry) *Normalizer {
	return &Normalizer{logger: logger, metrics: reg, now: time.Now}
}

// Normalize builds a Listing from raw. It never fails; every substituted field
// is recorded in Listing.MissingFields.
func (n *Normalizer) Normalize(raw models.RawListing) *models.Listing {
	l := &models.Listing{}
	var missing []string

	field := func(key, value string, ok bool, sentinel string) string {
		if ok {
			return value
		}
		missing = append(missing, key)
		return sentinel
	}

	addr, ok := textField(raw, models.FieldAddress)
	l.Address = field(models.FieldAddress, addr, ok, models.NotAvailable)

	price, ok := textField(raw, models.FieldPrice)
	l.Price = field(models.FieldPrice, price, ok, models.NotAvailable)
	if ok {
		l.PriceValue, _ = parsePrice(price)
	}

	beds, ok := countField(raw, models.FieldBedrooms, bedroomSuffixes)
	l.Bedrooms = field(models.FieldBedrooms, beds, ok, models.NotAvailable)

	baths, ok := countField(raw, models.FieldBathrooms, bathroomSuffixes)
	l.Bathrooms = field(models.FieldBathrooms, baths, ok, models.NotAvailable)

	sqft, ok := countField(raw, models.FieldSquareFeet, areaSuffixes)
	l.SquareFeet = field(models.FieldSquareFeet, sqft, ok, models.NotAvailable)

	// Non-numeric values are kept verbatim; the scorer decides what they are worth.
	dom, ok := textField(raw, models.FieldDaysOnMarket)
	l.DaysOnMarket = field(models.FieldDaysOnMarket, dom, ok, models.Unknown)

	url, ok := textField(raw, models.FieldURL)
	l.URL = field(models.FieldURL, url, ok, models.NotAvailable)

	scraped, ok := dateField(raw, models.FieldScrapedDate)
	if !ok {
		scraped = n.now()
	}
	l.ScrapedDate = scraped
	if !ok {
		missing = append(missing, models.FieldScrapedDate)
	}

	if len(missing) > 0 {
		l.MissingFields = missing
		n.logger.Warn("[normalizer] %s: substituted sentinels for %s", l.Address, strings.Join(missing, ", "))
		if n.metrics != nil {
			for _, f := range missing {
				n.metrics.FieldDefects.WithLabelValues(f).Inc()
			}
		}
	}
	return l
}

// textField returns the normalised value for key and whether it was usable.
func textField(raw models.RawListing, key string) (string, bool) {
	v, present := raw[key]
	if !present {
		return "", false
	}
	v = normaliseText(v)
	if v == "" || strings.EqualFold(v, models.NotAvailable) || strings.EqualFold(v, models.Unknown) {
		return "", false
	}
	return v, true
}

// countField strips unit suffixes and thousands separators, then requires a bare number.
func countField(raw models.RawListing, key string, suffixes []string) (string, bool) {
	v, ok := textField(raw, key)
	if !ok {
		return "", false
	}
	v = strings.ToLower(strings.ReplaceAll(v, ",", ""))
	for _, s := range suffixes {
		if strings.HasSuffix(v, s) {
			v = strings.TrimSpace(strings.TrimSuffix(v, s))
			break
		}
	}
	if !countRegexp.MatchString(v) {
		return "", false
	}
	return v, true
}

func dateField(raw models.RawListing, key string) (time.Time, bool) {
	v, ok := textField(raw, key)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range scrapedDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parsePrice extracts a dollar amount from a scraped price.
// Examples:
//
//	"$250,000"  → 250000
//	"$1.2M"     → 1200000
//	"$899K"     → 899000
//	"Est. $--"  → 0, false
func parsePrice(raw string) (float64, bool) {
	m := priceRegexp.FindStringSubmatch(raw)
	if len(m) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	}
	return v, true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
