package service

import (
	"context"
	"log/slog"

	"github.com/anika/trustpath/backend/internal/domain"
)

// GraphAssembler builds the per-query candidate graph from repository
// reads. It performs no writes, and any unreachable repository degrades
// to an empty collection so the query can still produce a well-formed
// (possibly empty or fallback-only) result.
type GraphAssembler struct {
	repo   NetworkRepository
	hub    HubResolver
	logger *slog.Logger
}

// NewGraphAssembler constructs a GraphAssembler.
func NewGraphAssembler(repo NetworkRepository, hub HubResolver, logger *slog.Logger) *GraphAssembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphAssembler{repo: repo, hub: hub, logger: logger}
}

// Assemble gathers the requester's 1-hop neighborhood, the members
// rating the target organization, and the hub member.
func (a *GraphAssembler) Assemble(ctx context.Context, requesterID, target string) Snapshot {
	snap := Snapshot{
		RequesterID:        requesterID,
		TargetOrganization: target,
	}

	neighbors, err := a.repo.ActiveRelationships(ctx, requesterID)
	if err != nil {
		a.logger.Warn("neighbor lookup failed, treating neighborhood as empty",
			"requesterId", requesterID, "error", err)
	} else {
		snap.Neighbors = neighbors
	}

	raters, err := a.repo.MembersRatingOrganization(ctx, target)
	if err != nil {
		a.logger.Warn("organization rater lookup failed, treating as empty",
			"organization", target, "error", err)
	} else {
		snap.OrgRaters = raters
	}

	if a.hub != nil {
		hub, found, err := a.hub.Resolve(ctx)
		if err != nil {
			a.logger.Warn("hub resolution errored, continuing without hub", "error", err)
		} else if found {
			snap.Hub = hub
			snap.HubFound = true
		}
	}

	return snap
}

// raterIndex maps member IDs to their organization rating entry.
func raterIndex(raters []domain.OrganizationRater) map[string]domain.OrganizationRater {
	index := make(map[string]domain.OrganizationRater, len(raters))
	for _, rater := range raters {
		index[rater.Member.ID] = rater
	}
	return index
}
