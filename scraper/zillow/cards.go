package zillow

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"zillow-wholesale/models"
	"zillow-wholesale/utils"
)

const (
	cardSelector    = "[data-test='property-card']"
	addressSelector = "[data-test='property-card-addr']"
	priceSelector   = "[data-test='property-card-price']"
	detailsSelector = "[data-test='property-card-details'] span"

	daysOnZillowMarker = "days on Zillow"
)

var now = time.Now

// ExtractCards parses a search results page and returns one raw listing per
// property card, at most limit of them (limit <= 0 means all). Pieces a card
// does not show are left out of its map. Cards repeating an earlier URL are skipped.
func ExtractCards(html string, base *url.URL, limit int) ([]models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("zillow: parse results page: %w", err)
	}

	seen := utils.NewURLSet()
	scrapedDate := now().Format(time.RFC3339)
	listings := make([]models.RawListing, 0)

	doc.Find(cardSelector).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if limit > 0 && len(listings) >= limit {
			return false
		}

		raw := extractCard(card, base)
		if u, ok := raw[models.FieldURL]; ok && !seen.Add(u) {
			return true
		}
		raw[models.FieldScrapedDate] = scrapedDate
		listings = append(listings, raw)
		return true
	})

	return listings, nil
}

func extractCard(card *goquery.Selection, base *url.URL) models.RawListing {
	raw := models.RawListing{}

	setText(raw, models.FieldAddress, card.Find(addressSelector).First())
	setText(raw, models.FieldPrice, card.Find(priceSelector).First())

	// Beds, baths and area are only trusted when all three are shown.
	details := card.Find(detailsSelector)
	if details.Length() >= 3 {
		setValue(raw, models.FieldBedrooms, strings.TrimSuffix(text(details.Eq(0)), " bd"))
		setValue(raw, models.FieldBathrooms, strings.TrimSuffix(text(details.Eq(1)), " ba"))
		sqft := strings.TrimSuffix(text(details.Eq(2)), " sqft")
		setValue(raw, models.FieldSquareFeet, strings.ReplaceAll(sqft, ",", ""))
	}

	if dom := daysOnZillow(card); dom != "" {
		raw[models.FieldDaysOnMarket] = dom
	}

	if href, ok := card.Find("a").First().Attr("href"); ok {
		if u := absoluteURL(base, href); u != "" {
			raw[models.FieldURL] = u
		}
	}
	return raw
}

// daysOnZillow returns the first word of the innermost element mentioning
// days on Zillow, e.g. "143" from "143 days on Zillow".
func daysOnZillow(card *goquery.Selection) string {
	var dom string
	card.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() > 0 {
			return true
		}
		t := text(s)
		if !strings.Contains(t, daysOnZillowMarker) {
			return true
		}
		if fields := strings.Fields(t); len(fields) > 0 {
			dom = fields[0]
		}
		return false
	})
	return dom
}

func absoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func setText(raw models.RawListing, key string, s *goquery.Selection) {
	if s.Length() == 0 {
		return
	}
	setValue(raw, key, text(s))
}

func setValue(raw models.RawListing, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		raw[key] = value
	}
}
