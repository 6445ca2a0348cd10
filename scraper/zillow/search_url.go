package zillow

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"zillow-wholesale/config"
)

const (
	baseURL = "https://www.zillow.com"

	defaultMinPrice int64 = 50000
	defaultMaxPrice int64 = 300000

	singleFamilyHomeType = 6
)

type minMax struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

type filterState struct {
	SortSelection struct {
		Value string `json:"value"`
	} `json:"sortSelection"`
	DaysOnZillow minMax `json:"daysOnZillow"`
	Price        minMax `json:"price"`
	HomeType     *struct {
		In []int `json:"in"`
	} `json:"homeType,omitempty"`
	Built *minMax `json:"built,omitempty"`
}

type searchQueryState struct {
	Pagination      struct{}    `json:"pagination"`
	UsersSearchTerm string      `json:"usersSearchTerm"`
	MapBounds       struct{}    `json:"mapBounds"`
	IsMapVisible    bool        `json:"isMapVisible"`
	FilterState     filterState `json:"filterState"`
}

// LocationSlug returns the path segment Zillow uses for the search area:
// "Wake-NC" for a county search or the bare zip code.
func LocationSlug(p config.SearchParams) string {
	if p.LocationType == config.LocationCounty {
		county := strings.Join(strings.Fields(p.County), "-")
		return county + "-" + strings.ToUpper(strings.TrimSpace(p.State))
	}
	return strings.TrimSpace(p.ZipCode)
}

// BuildSearchURL builds the for-sale search URL for p, sorted by days on
// market. Prices fall back to 50,000 - 300,000 when no range was resolved.
func BuildSearchURL(p config.SearchParams) (string, error) {
	if strings.TrimSpace(p.County) == "" && strings.TrimSpace(p.ZipCode) == "" {
		return "", fmt.Errorf("zillow: %w: no search location", config.ErrInvalidConfiguration)
	}
	slug := LocationSlug(p)

	minPrice, maxPrice := defaultMinPrice, defaultMaxPrice
	if p.MinPrice != nil {
		minPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		maxPrice = *p.MaxPrice
	}
	minDOM := int64(p.MinDaysOnMarket)

	state := searchQueryState{
		UsersSearchTerm: slug,
		IsMapVisible:    true,
	}
	fs := &state.FilterState
	fs.SortSelection.Value = "days"
	fs.DaysOnZillow = minMax{Min: &minDOM}
	fs.Price = minMax{Min: &minPrice, Max: &maxPrice}
	if p.PropertyTypes.SingleFamily && !p.PropertyTypes.Multifamily {
		fs.HomeType = &struct {
			In []int `json:"in"`
		}{In: []int{singleFamilyHomeType}}
	}
	if p.MinYearBuilt > 0 {
		built := int64(p.MinYearBuilt)
		fs.Built = &minMax{Min: &built}
	}

	query, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("zillow: encode search state: %w", err)
	}

	u := baseURL + "/homes/for_sale/" + url.PathEscape(slug) + "/"
	return u + "?" + url.Values{"searchQueryState": {string(query)}}.Encode(), nil
}
