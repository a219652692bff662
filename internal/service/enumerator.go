package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/anika/trustpath/backend/internal/domain"
)

// Thresholds for promoting a neighbor to an indirect-tier intermediary.
const (
	highTrustThreshold    = 3.5
	highStrengthThreshold = 0.5
)

// maxConcurrentEdgeChecks bounds the parallel per-intermediary
// relationship fetches issued during indirect-tier enumeration.
const maxConcurrentEdgeChecks = 4

// RouteEnumerator generates candidate introduction paths of length 1
// and 2 from a snapshot. Every two-hop path is backed by an edge read
// from the relationship store for that specific pair; co-membership in
// two neighbor sets is never treated as evidence of an edge.
type RouteEnumerator struct {
	repo   NetworkRepository
	logger *slog.Logger
}

// NewRouteEnumerator constructs a RouteEnumerator.
func NewRouteEnumerator(repo NetworkRepository, logger *slog.Logger) *RouteEnumerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteEnumerator{repo: repo, logger: logger}
}

// Enumerate walks the five tiers in order and returns deduplicated raw
// routes. Output order is fully determined by the snapshot contents,
// never by I/O completion order.
func (e *RouteEnumerator) Enumerate(ctx context.Context, snap Snapshot) []rawRoute {
	raters := raterIndex(snap.OrgRaters)
	seen := make(map[string]struct{})
	var routes []rawRoute

	emit := func(route rawRoute) {
		key := pathKey(route.Path)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		routes = append(routes, route)
	}

	e.enumerateDirect(snap, raters, emit)
	e.enumerateIndirect(ctx, snap, raters, emit)

	hubConnected := e.requesterConnectedToHub(ctx, snap)
	if hubConnected {
		e.enumerateHubDirect(snap, raters, emit)
		e.enumerateHubBridge(ctx, snap, raters, emit)

		// Fallback: the requester at least knows the broker, so never
		// answer "no options" even without a verified path to the target.
		if len(routes) == 0 {
			emit(rawRoute{
				Tier:          domain.TierFallback,
				Path:          []domain.Member{snap.Hub},
				EndpointTrust: snap.Hub.TrustProxy,
			})
		}
	}

	return routes
}

// enumerateDirect emits length-1 routes for neighbors whose affiliation
// matches the target or who have rated it themselves.
func (e *RouteEnumerator) enumerateDirect(snap Snapshot, raters map[string]domain.OrganizationRater, emit func(rawRoute)) {
	for _, neighbor := range snap.Neighbors {
		_, hasRated := raters[neighbor.Member.ID]
		if !hasRated && !organizationMatches(neighbor.Member.Organization, snap.TargetOrganization) {
			continue
		}
		emit(rawRoute{
			Tier:          domain.TierDirect,
			Path:          []domain.Member{neighbor.Member},
			EndpointTrust: neighbor.Member.TrustProxy,
			Strength:      neighbor.Strength,
		})
	}
}

// enumerateIndirect emits length-2 routes through high-trust neighbors.
// Each intermediary's own active-relationship set is fetched from the
// store and intersected with the organization raters; the fetches run
// concurrently but each intermediary's routes are only emitted once all
// of its checks completed, in snapshot neighbor order.
func (e *RouteEnumerator) enumerateIndirect(ctx context.Context, snap Snapshot, raters map[string]domain.OrganizationRater, emit func(rawRoute)) {
	var intermediaries []domain.Neighbor
	for _, neighbor := range snap.Neighbors {
		if neighbor.Member.TrustProxy >= highTrustThreshold && neighbor.Strength >= highStrengthThreshold {
			intermediaries = append(intermediaries, neighbor)
		}
	}
	if len(intermediaries) == 0 {
		return
	}

	connections := make([][]domain.Neighbor, len(intermediaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEdgeChecks)
	for i := range intermediaries {
		idx := i
		g.Go(func() error {
			conns, err := e.repo.ActiveRelationships(gctx, intermediaries[idx].Member.ID)
			if err != nil {
				e.logger.Warn("intermediary relationship fetch failed, skipping",
					"memberId", intermediaries[idx].Member.ID, "error", err)
				return nil
			}
			connections[idx] = conns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("indirect enumeration aborted", "error", err)
		return
	}

	for i, intermediary := range intermediaries {
		for _, conn := range connections[i] {
			if conn.Member.ID == intermediary.Member.ID || conn.Member.ID == snap.RequesterID {
				continue
			}
			rater, ok := raters[conn.Member.ID]
			if !ok {
				continue
			}
			emit(rawRoute{
				Tier:              domain.TierIndirect,
				Path:              []domain.Member{intermediary.Member, rater.Member},
				IntermediaryTrust: intermediary.Member.TrustProxy,
				EndpointTrust:     rater.Score,
				Strength:          intermediary.Strength,
			})
		}
	}
}

// enumerateHubDirect emits [hub] when the hub itself has rated the target.
func (e *RouteEnumerator) enumerateHubDirect(snap Snapshot, raters map[string]domain.OrganizationRater, emit func(rawRoute)) {
	if _, hubRated := raters[snap.Hub.ID]; !hubRated {
		return
	}
	emit(rawRoute{
		Tier:          domain.TierHubDirect,
		Path:          []domain.Member{snap.Hub},
		EndpointTrust: snap.Hub.TrustProxy,
	})
}

// enumerateHubBridge emits [hub, rater] for every confirmed hub edge
// into the organization's rater set.
func (e *RouteEnumerator) enumerateHubBridge(ctx context.Context, snap Snapshot, raters map[string]domain.OrganizationRater, emit func(rawRoute)) {
	hubConns, err := e.repo.ActiveRelationships(ctx, snap.Hub.ID)
	if err != nil {
		e.logger.Warn("hub relationship fetch failed, skipping hub bridge tier", "error", err)
		return
	}

	for _, conn := range hubConns {
		if conn.Member.ID == snap.Hub.ID || conn.Member.ID == snap.RequesterID {
			continue
		}
		rater, ok := raters[conn.Member.ID]
		if !ok {
			continue
		}
		emit(rawRoute{
			Tier:              domain.TierHubBridge,
			Path:              []domain.Member{snap.Hub, rater.Member},
			IntermediaryTrust: snap.Hub.TrustProxy,
			EndpointTrust:     rater.Score,
			Strength:          conn.Strength,
		})
	}
}

// requesterConnectedToHub verifies the requester-hub edge at the pair
// level. Store failures count as not connected.
func (e *RouteEnumerator) requesterConnectedToHub(ctx context.Context, snap Snapshot) bool {
	if !snap.HubFound || snap.Hub.ID == "" || snap.Hub.ID == snap.RequesterID {
		return false
	}
	connected, err := e.repo.RelationshipExists(ctx, snap.RequesterID, snap.Hub.ID)
	if err != nil {
		e.logger.Warn("hub connectivity check failed, treating as disconnected",
			"requesterId", snap.RequesterID, "error", err)
		return false
	}
	return connected
}
