package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zillow-wholesale/metrics"
	"zillow-wholesale/models"
	"zillow-wholesale/utils"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestNormalizer(reg *metrics.Registry) *Normalizer {
	n := NewNormalizer(utils.NewNopLogger(), reg)
	n.now = func() time.Time { return fixedNow }
	return n
}

func completeRaw() models.RawListing {
	return models.RawListing{
		models.FieldAddress:      "  123 Oak   St, Raleigh, NC 27601 ",
		models.FieldPrice:        "$245,000",
		models.FieldBedrooms:     "3 bds",
		models.FieldBathrooms:    "2 ba",
		models.FieldSquareFeet:   "1,450 sqft",
		models.FieldDaysOnMarket: "95",
		models.FieldURL:          "https://www.zillow.com/homedetails/123-Oak-St/1_zpid/",
		models.FieldScrapedDate:  "2024-02-28T14:05:06.123456",
	}
}

func TestNormalizeComplete(t *testing.T) {
	l := newTestNormalizer(nil).Normalize(completeRaw())

	assert.Equal(t, "123 Oak St, Raleigh, NC 27601", l.Address)
	assert.Equal(t, "$245,000", l.Price)
	assert.Equal(t, 245000.0, l.PriceValue)
	assert.Equal(t, "3", l.Bedrooms)
	assert.Equal(t, "2", l.Bathrooms)
	assert.Equal(t, "1450", l.SquareFeet)
	assert.Equal(t, "95", l.DaysOnMarket)
	assert.Equal(t, "https://www.zillow.com/homedetails/123-Oak-St/1_zpid/", l.URL)
	assert.Equal(t, time.Date(2024, 2, 28, 14, 5, 6, 123456000, time.UTC), l.ScrapedDate)
	assert.Empty(t, l.MissingFields)
}

func TestNormalizeMissingBedrooms(t *testing.T) {
	raw := completeRaw()
	delete(raw, models.FieldBedrooms)

	l := newTestNormalizer(nil).Normalize(raw)

	assert.Equal(t, models.NotAvailable, l.Bedrooms)
	assert.Equal(t, []string{models.FieldBedrooms}, l.MissingFields)
}

func TestNormalizeEmptyRecord(t *testing.T) {
	reg := metrics.NewRegistry()
	l := newTestNormalizer(reg).Normalize(models.RawListing{})

	assert.Equal(t, models.NotAvailable, l.Address)
	assert.Equal(t, models.NotAvailable, l.Price)
	assert.Equal(t, models.NotAvailable, l.Bedrooms)
	assert.Equal(t, models.NotAvailable, l.Bathrooms)
	assert.Equal(t, models.NotAvailable, l.SquareFeet)
	assert.Equal(t, models.Unknown, l.DaysOnMarket)
	assert.Equal(t, models.NotAvailable, l.URL)
	assert.Equal(t, fixedNow, l.ScrapedDate)
	assert.Len(t, l.MissingFields, 8)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.FieldDefects.WithLabelValues(models.FieldDaysOnMarket)))
}

func TestNormalizeMalformedFields(t *testing.T) {
	raw := completeRaw()
	raw[models.FieldBedrooms] = "Studio"
	raw[models.FieldSquareFeet] = "-- sqft"
	raw[models.FieldDaysOnMarket] = "Unknown"
	raw[models.FieldScrapedDate] = "yesterday"

	l := newTestNormalizer(nil).Normalize(raw)

	assert.Equal(t, models.NotAvailable, l.Bedrooms)
	assert.Equal(t, models.NotAvailable, l.SquareFeet)
	assert.Equal(t, models.Unknown, l.DaysOnMarket)
	assert.Equal(t, fixedNow, l.ScrapedDate)
	assert.ElementsMatch(t, []string{
		models.FieldBedrooms, models.FieldSquareFeet, models.FieldDaysOnMarket, models.FieldScrapedDate,
	}, l.MissingFields)
}

func TestNormalizeKeepsNonNumericDaysOnMarket(t *testing.T) {
	raw := completeRaw()
	raw[models.FieldDaysOnMarket] = "--"

	l := newTestNormalizer(nil).Normalize(raw)
	assert.Equal(t, "--", l.DaysOnMarket)
	assert.Empty(t, l.MissingFields)
}

func TestNormalizeScrapedDateLayouts(t *testing.T) {
	for _, v := range []string{"2024-02-28T14:05:06Z", "2024-02-28T14:05:06", "2024-02-28 14:05:06"} {
		raw := completeRaw()
		raw[models.FieldScrapedDate] = v
		l := newTestNormalizer(nil).Normalize(raw)
		require.Empty(t, l.MissingFields, v)
		assert.Equal(t, 2024, l.ScrapedDate.Year(), v)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"$245,000", 245000, true},
		{"$1.2M", 1200000, true},
		{"$899K", 899000, true},
		{"$1,200.50", 1200.50, true},
		{"Est. $--", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		assert.Equal(t, tt.ok, ok, "parsePrice(%q) ok", tt.raw)
		assert.InDelta(t, tt.want, got, 1e-6, "parsePrice(%q)", tt.raw)
	}
}
