package services

import (
	"fmt"
	"strconv"
	"strings"

	"zillow-wholesale/models"
)

// Days-on-market points. A listing whose DOM cannot be read still earns
// unknownDOMPoints so it is not ranked below a fresh listing.
const (
	staleDOMPoints   = 40 // more than 120 days
	agingDOMPoints   = 30 // 91 to 120 days
	slowDOMPoints    = 20 // 61 to 90 days
	unknownDOMPoints = 10

	// Action tiers over the cumulative score.
	callTodayScore    = 70
	callThisWeekScore = 50
)

// Assessment is the outcome of scoring one listing.
type Assessment struct {
	Score  int
	Action models.Action
	Notes  string
}

// OpportunityScorer rates listings by how motivated the seller is likely to be.
// Days on market is the only factor.
type OpportunityScorer struct{}

// NewOpportunityScorer creates an OpportunityScorer.
func NewOpportunityScorer() *OpportunityScorer {
	return &OpportunityScorer{}
}

// Score assesses l without modifying it.
func (s *OpportunityScorer) Score(l *models.Listing) Assessment {
	score := 0
	if dom, ok := parseDaysOnMarket(l.DaysOnMarket); ok {
		switch {
		case dom > 120:
			score += staleDOMPoints
		case dom > 90:
			score += agingDOMPoints
		case dom > 60:
			score += slowDOMPoints
		}
	} else {
		score += unknownDOMPoints
	}

	return Assessment{
		Score:  score,
		Action: actionFor(score),
		Notes:  fmt.Sprintf("DOM: %s days", l.DaysOnMarket),
	}
}

// Apply scores l and records the result on it.
func (s *OpportunityScorer) Apply(l *models.Listing) {
	a := s.Score(l)
	l.OpportunityScore = a.Score
	l.RecommendedAction = a.Action
	l.AnalysisNotes = a.Notes
}

func actionFor(score int) models.Action {
	switch {
	case score >= callTodayScore:
		return models.ActionCallToday
	case score >= callThisWeekScore:
		return models.ActionCallThisWeek
	default:
		return models.ActionResearchMore
	}
}

func parseDaysOnMarket(raw string) (int, bool) {
	dom, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return dom, true
}
