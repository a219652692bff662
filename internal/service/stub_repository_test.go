package service

import (
	"context"
	"sync"

	"github.com/anika/trustpath/backend/internal/domain"
)

// stubNetworkRepo is an in-memory NetworkRepository for engine tests.
// Edges used by RelationshipExists are declared independently of the
// neighbor lists so tests can exercise the pair-level verification rule.
type stubNetworkRepo struct {
	mu sync.Mutex

	relationships map[string][]domain.Neighbor
	edges         map[string]bool
	raters        []domain.OrganizationRater
	trust         map[string]float64

	relationshipsErr error
	ratersErr        error
	existsErr        error

	relationshipCalls []string
	existsCalls       [][2]string
}

func newStubNetworkRepo() *stubNetworkRepo {
	return &stubNetworkRepo{
		relationships: make(map[string][]domain.Neighbor),
		edges:         make(map[string]bool),
		trust:         make(map[string]float64),
	}
}

func (s *stubNetworkRepo) addNeighbors(memberID string, neighbors ...domain.Neighbor) {
	s.relationships[memberID] = append(s.relationships[memberID], neighbors...)
	for _, n := range neighbors {
		s.edges[pairKey(memberID, n.Member.ID)] = true
	}
}

func (s *stubNetworkRepo) ActiveRelationships(_ context.Context, memberID string) ([]domain.Neighbor, error) {
	s.mu.Lock()
	s.relationshipCalls = append(s.relationshipCalls, memberID)
	s.mu.Unlock()

	if s.relationshipsErr != nil {
		return nil, s.relationshipsErr
	}
	return s.relationships[memberID], nil
}

func (s *stubNetworkRepo) RelationshipExists(_ context.Context, memberA, memberB string) (bool, error) {
	s.mu.Lock()
	s.existsCalls = append(s.existsCalls, [2]string{memberA, memberB})
	s.mu.Unlock()

	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.edges[pairKey(memberA, memberB)], nil
}

func (s *stubNetworkRepo) MembersRatingOrganization(_ context.Context, _ string) ([]domain.OrganizationRater, error) {
	if s.ratersErr != nil {
		return nil, s.ratersErr
	}
	return s.raters, nil
}

func (s *stubNetworkRepo) MemberTrustProxy(_ context.Context, memberID string) (float64, error) {
	if v, ok := s.trust[memberID]; ok {
		return v, nil
	}
	return domain.DefaultTrustProxy, nil
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// stubDirectory backs the companion directory lookups.
type stubDirectory struct {
	industries    []domain.IndustryCount
	organizations []domain.OrganizationSummary
	err           error
}

func (s *stubDirectory) ListIndustries(context.Context) ([]domain.IndustryCount, error) {
	return s.industries, s.err
}

func (s *stubDirectory) ListOrganizationsByIndustry(context.Context, string) ([]domain.OrganizationSummary, error) {
	return s.organizations, s.err
}

// stubHubResolver returns a fixed hub.
type stubHubResolver struct {
	hub   domain.Member
	found bool
}

func (s *stubHubResolver) Resolve(context.Context) (domain.Member, bool, error) {
	return s.hub, s.found, nil
}

func member(id, name, organization string, trust float64) domain.Member {
	return domain.Member{
		ID:           id,
		FullName:     name,
		Organization: organization,
		Industry:     domain.DefaultIndustry,
		TrustProxy:   trust,
	}
}

func neighbor(m domain.Member, strength float64) domain.Neighbor {
	return domain.Neighbor{Member: m, Strength: strength}
}

func rater(m domain.Member, score float64) domain.OrganizationRater {
	return domain.OrganizationRater{Member: m, Score: score}
}
