package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"zillow-wholesale/models"
	"zillow-wholesale/utils"
)

// Days-on-market buckets, aligned with the scoring tiers.
const (
	BucketStale   = ">120"
	BucketAging   = "91-120"
	BucketSlow    = "61-90"
	BucketFresh   = "0-60"
	BucketUnknown = "Unknown"
)

var domBuckets = []string{BucketStale, BucketAging, BucketSlow, BucketFresh, BucketUnknown}

const topOpportunities = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *models.CallSheetReport {
	report := &models.CallSheetReport{
		ActionCounts:   make(map[models.Action]int),
		ByDaysOnMarket: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var scoreTotal int
	var priceTotal float64
	for _, l := range listings {
		report.ActionCounts[l.RecommendedAction]++
		report.ByDaysOnMarket[domBucket(l.DaysOnMarket)]++
		scoreTotal += l.OpportunityScore
		if len(l.MissingFields) > 0 {
			report.IncompleteRecord++
		}

		if l.PriceValue <= 0 {
			continue
		}
		if report.PricedListings == 0 || l.PriceValue < report.MinPrice {
			report.MinPrice = l.PriceValue
		}
		if l.PriceValue > report.MaxPrice {
			report.MaxPrice = l.PriceValue
		}
		priceTotal += l.PriceValue
		report.PricedListings++
	}

	report.AverageScore = round2(float64(scoreTotal) / float64(len(listings)))
	if report.PricedListings > 0 {
		report.AveragePrice = round2(priceTotal / float64(report.PricedListings))
	}

	// Highest score first; ties keep call-sheet order.
	ranked := make([]*models.Listing, len(listings))
	copy(ranked, listings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OpportunityScore > ranked[j].OpportunityScore
	})
	if len(ranked) > topOpportunities {
		ranked = ranked[:topOpportunities]
	}
	report.TopOpportunities = ranked

	return report
}

func (s *InsightService) Print(w io.Writer, r *models.CallSheetReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📞 WHOLESALE CALL SHEET SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings analysed      : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Average score          : \033[1m%.2f\033[0m\n", r.AverageScore)
	fmt.Fprintf(w, "  Incomplete records     : \033[1m%d\033[0m\n", r.IncompleteRecord)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Recommended Actions\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, a := range models.Actions {
		fmt.Fprintf(w, "  %-16s %d\n", a.Label(), r.ActionCounts[a])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Asking Prices\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m$%.0f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m$%.0f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m$%.0f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top Opportunities\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopOpportunities) == 0 {
		fmt.Fprintf(w, "  No listings found\n")
	} else {
		for i, l := range r.TopOpportunities {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-38s \033[1;32m%3d\033[0m  %s\n",
				i+1, truncate(l.Address, 38), l.OpportunityScore, l.RecommendedAction.Label())
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Days on Market\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, b := range domBuckets {
		n := r.ByDaysOnMarket[b]
		fmt.Fprintf(w, "  %-10s %s (%d)\n", b, strings.Repeat("█", n), n)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func domBucket(raw string) string {
	dom, ok := parseDaysOnMarket(raw)
	switch {
	case !ok:
		return BucketUnknown
	case dom > 120:
		return BucketStale
	case dom > 90:
		return BucketAging
	case dom > 60:
		return BucketSlow
	default:
		return BucketFresh
	}
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
