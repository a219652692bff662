package service

import (
	"context"

	"github.com/anika/trustpath/backend/internal/domain"
)

// NetworkRepository is the read contract the route engine requires from
// the relationship and rating stores.
type NetworkRepository interface {
	ActiveRelationships(ctx context.Context, memberID string) ([]domain.Neighbor, error)
	RelationshipExists(ctx context.Context, memberA, memberB string) (bool, error)
	MembersRatingOrganization(ctx context.Context, target string) ([]domain.OrganizationRater, error)
	MemberTrustProxy(ctx context.Context, memberID string) (float64, error)
}

// DirectoryRepository backs the companion organization directory lookups.
type DirectoryRepository interface {
	ListIndustries(ctx context.Context) ([]domain.IndustryCount, error)
	ListOrganizationsByIndustry(ctx context.Context, industry string) ([]domain.OrganizationSummary, error)
}

// Snapshot is the per-query candidate graph: the requester's 1-hop
// neighborhood, the members connected to the target organization, and
// the hub member if one resolved. It is built once per query and never
// shared across queries.
type Snapshot struct {
	RequesterID        string
	TargetOrganization string
	Neighbors          []domain.Neighbor
	OrgRaters          []domain.OrganizationRater
	Hub                domain.Member
	HubFound           bool
}

// rawRoute is an unscored candidate path. Trust inputs are captured at
// enumeration time so the scorer never goes back to the repositories.
type rawRoute struct {
	Tier              domain.RouteTier
	Path              []domain.Member
	IntermediaryTrust float64
	EndpointTrust     float64
	Strength          float64
}

func pathKey(path []domain.Member) string {
	key := ""
	for i, m := range path {
		if i > 0 {
			key += "->"
		}
		key += m.ID
	}
	return key
}
