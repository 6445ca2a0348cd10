package zillow

import (
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zillow-wholesale/models"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/results.html")
	require.NoError(t, err)
	return string(data)
}

func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

func TestExtractCards(t *testing.T) {
	fixedNow(t)
	base, _ := url.Parse(baseURL)

	listings, err := ExtractCards(loadFixture(t), base, 0)
	require.NoError(t, err)
	require.Len(t, listings, 3, "the repeated Oak St card is skipped")

	assert.Equal(t, models.RawListing{
		models.FieldAddress:      "123 Oak St, Raleigh, NC 27601",
		models.FieldPrice:        "$245,000",
		models.FieldBedrooms:     "3",
		models.FieldBathrooms:    "2",
		models.FieldSquareFeet:   "1450",
		models.FieldDaysOnMarket: "143",
		models.FieldURL:          "https://www.zillow.com/homedetails/123-Oak-St-Raleigh-NC-27601/111_zpid/",
		models.FieldScrapedDate:  "2024-03-01T09:30:00Z",
	}, listings[0])
}

func TestExtractCardsOmitsMissingPieces(t *testing.T) {
	fixedNow(t)
	base, _ := url.Parse(baseURL)

	listings, err := ExtractCards(loadFixture(t), base, 0)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	elm := listings[1]
	assert.Equal(t, "9 Elm Ct, Cary, NC 27511", elm[models.FieldAddress])
	assert.NotContains(t, elm, models.FieldBedrooms, "partial details are not trusted")
	assert.NotContains(t, elm, models.FieldDaysOnMarket)
	assert.Equal(t, "https://www.zillow.com/homedetails/9-Elm-Ct-Cary-NC-27511/222_zpid/", elm[models.FieldURL])

	ash := listings[2]
	assert.Equal(t, "61", ash[models.FieldDaysOnMarket])
	assert.Equal(t, "Est. $198K", ash[models.FieldPrice])
}

func TestExtractCardsLimit(t *testing.T) {
	base, _ := url.Parse(baseURL)

	listings, err := ExtractCards(loadFixture(t), base, 2)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "9 Elm Ct, Cary, NC 27511", listings[1][models.FieldAddress])
}

func TestExtractCardsNoCards(t *testing.T) {
	listings, err := ExtractCards("<html><body><p>No matching results</p></body></html>", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestAbsoluteURL(t *testing.T) {
	base, _ := url.Parse(baseURL)

	tests := []struct {
		href string
		want string
	}{
		{"/homedetails/1_zpid/", "https://www.zillow.com/homedetails/1_zpid/"},
		{"https://example.com/x", "https://example.com/x"},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, absoluteURL(base, tt.href), "absoluteURL(%q)", tt.href)
	}
}
