package service

import (
	"sort"

	"github.com/anika/trustpath/backend/internal/domain"
)

// maxRankedRoutes caps the number of routes returned per query.
const maxRankedRoutes = 5

// Per-tier scoring weights. These are fixed heuristics carried over
// from the original product tuning; changing them is a product
// decision, not a refactor.
const (
	directEfficiency   = 0.95
	directSuccessCap   = 0.9
	directDays         = 3
	indirectEfficiency = 0.85
	indirectSuccessCap = 0.75
	indirectDays       = 7
	hubEfficiency      = 0.9
	hubSuccessCap      = 0.85
	hubDays            = 5
	bridgeEfficiency   = 0.8
	bridgeSuccessCap   = 0.7
	bridgeDays         = 10
	fallbackEfficiency = 0.6
	fallbackSuccess    = 0.5
	fallbackDays       = 14
)

// RouteScorer turns raw candidate paths into scored, ranked routes.
type RouteScorer struct{}

// NewRouteScorer constructs a RouteScorer.
func NewRouteScorer() *RouteScorer {
	return &RouteScorer{}
}

// Score applies the tier formula to each candidate, sorts descending by
// efficiency-weighted trust, and truncates. The sort is stable so that
// identical inputs always rank identically.
func (s *RouteScorer) Score(raw []rawRoute) []domain.Route {
	routes := make([]domain.Route, 0, len(raw))
	for _, candidate := range raw {
		routes = append(routes, s.score(candidate))
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Efficiency*routes[i].TrustScore > routes[j].Efficiency*routes[j].TrustScore
	})

	if len(routes) > maxRankedRoutes {
		routes = routes[:maxRankedRoutes]
	}
	return routes
}

func (s *RouteScorer) score(candidate rawRoute) domain.Route {
	route := domain.Route{
		Path: candidate.Path,
		Tier: candidate.Tier,
	}

	switch candidate.Tier {
	case domain.TierDirect:
		route.TrustScore = candidate.EndpointTrust
		route.Efficiency = directEfficiency
		route.SuccessProbability = capped(route.TrustScore/5*directSuccessCap, directSuccessCap)
		route.EstimatedDays = directDays
	case domain.TierIndirect:
		route.TrustScore = (candidate.IntermediaryTrust + candidate.EndpointTrust) / 2
		route.Efficiency = capped(candidate.Strength*0.8, indirectEfficiency)
		route.SuccessProbability = capped(route.TrustScore/5*indirectSuccessCap, indirectSuccessCap)
		route.EstimatedDays = indirectDays
	case domain.TierHubDirect:
		route.TrustScore = candidate.EndpointTrust
		route.Efficiency = hubEfficiency
		route.SuccessProbability = capped(route.TrustScore/5*hubSuccessCap, hubSuccessCap)
		route.EstimatedDays = hubDays
	case domain.TierHubBridge:
		route.TrustScore = (candidate.IntermediaryTrust + candidate.EndpointTrust) / 2
		route.Efficiency = bridgeEfficiency
		route.SuccessProbability = capped(route.TrustScore/5*bridgeSuccessCap, bridgeSuccessCap)
		route.EstimatedDays = bridgeDays
	case domain.TierFallback:
		route.TrustScore = candidate.EndpointTrust
		route.Efficiency = fallbackEfficiency
		route.SuccessProbability = fallbackSuccess
		route.EstimatedDays = fallbackDays
	}

	return route
}

// Analyze summarizes a ranked route set for the caller.
func (s *RouteScorer) Analyze(routes []domain.Route, hubAvailable bool) domain.RouteAnalysis {
	analysis := domain.RouteAnalysis{
		TotalRoutes:      len(routes),
		HubUserAvailable: hubAvailable,
	}
	if len(routes) == 0 {
		return analysis
	}

	best := routes[0]
	analysis.BestRoute = &best

	var sum float64
	for _, route := range routes {
		sum += route.SuccessProbability
	}
	analysis.AvgSuccessProbability = sum / float64(len(routes))
	return analysis
}

func capped(value, cap float64) float64 {
	if value > cap {
		return cap
	}
	return value
}
