package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anika/trustpath/backend/internal/domain"
)

// Validation errors surfaced to callers as rejected requests. Every
// other failure inside a query degrades to partial or empty data.
var (
	ErrEmptyRequester          = errors.New("requester member ID is required")
	ErrEmptyTargetOrganization = errors.New("target organization is required")
)

// RouteService is the single entry point for introduction queries: it
// assembles the candidate graph, enumerates tiers, scores, and ranks.
// It never writes to any store.
type RouteService struct {
	assembler  *GraphAssembler
	enumerator *RouteEnumerator
	scorer     *RouteScorer
	directory  DirectoryRepository
	logger     *slog.Logger
}

// NewRouteService wires the engine components over the given repositories.
func NewRouteService(repo NetworkRepository, directory DirectoryRepository, hub HubResolver, logger *slog.Logger) *RouteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteService{
		assembler:  NewGraphAssembler(repo, hub, logger),
		enumerator: NewRouteEnumerator(repo, logger),
		scorer:     NewRouteScorer(),
		directory:  directory,
		logger:     logger,
	}
}

// FindRoutes computes the ranked introduction routes from the requester
// to the target organization. Empty inputs are the only rejected
// condition; an unreachable store yields an empty or fallback-only
// result instead of an error.
func (s *RouteService) FindRoutes(ctx context.Context, requesterID, targetOrganization string) (domain.RouteResult, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return domain.RouteResult{}, ErrEmptyRequester
	}
	if strings.TrimSpace(targetOrganization) == "" {
		return domain.RouteResult{}, ErrEmptyTargetOrganization
	}

	snap := s.assembler.Assemble(ctx, requesterID, targetOrganization)
	raw := s.enumerator.Enumerate(ctx, snap)
	routes := s.scorer.Score(raw)

	s.logger.Debug("route query completed",
		"requesterId", requesterID,
		"organization", targetOrganization,
		"neighbors", len(snap.Neighbors),
		"orgRaters", len(snap.OrgRaters),
		"routes", len(routes),
	)

	return domain.RouteResult{
		Routes:   routes,
		Analysis: s.scorer.Analyze(routes, snap.HubFound),
	}, nil
}

// ListIndustries returns industries with organization counts for the
// companion directory UI.
func (s *RouteService) ListIndustries(ctx context.Context) ([]domain.IndustryCount, error) {
	return s.directory.ListIndustries(ctx)
}

// SearchOrganizations returns organizations whose industry matches the
// query, ranked by rating popularity.
func (s *RouteService) SearchOrganizations(ctx context.Context, industry string) ([]domain.OrganizationSummary, error) {
	return s.directory.ListOrganizationsByIndustry(ctx, industry)
}
