package domain

// RouteTier identifies the generation strategy that produced a route.
type RouteTier string

// Route generation tiers, strongest evidence first.
const (
	TierDirect    RouteTier = "DIRECT"
	TierIndirect  RouteTier = "INDIRECT"
	TierHubDirect RouteTier = "HUB_DIRECT"
	TierHubBridge RouteTier = "HUB_BRIDGE"
	TierFallback  RouteTier = "FALLBACK"
)

// Route is a scored introduction path from the requester to the target
// organization. Path holds the one or two intermediaries; the requester
// is the implicit start and is not included.
type Route struct {
	Path               []Member
	Tier               RouteTier
	TrustScore         float64
	Efficiency         float64
	SuccessProbability float64
	EstimatedDays      int
}

// RouteAnalysis summarizes a ranked route set.
type RouteAnalysis struct {
	TotalRoutes           int
	BestRoute             *Route
	AvgSuccessProbability float64
	HubUserAvailable      bool
}

// RouteResult is the full answer to one introduction query.
type RouteResult struct {
	Routes   []Route
	Analysis RouteAnalysis
}
