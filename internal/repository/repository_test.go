package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anika/trustpath/backend/internal/graph"
)

func memberRecord(id string, extra map[string]any) graph.Record {
	record := graph.Record{
		"memberId":     id,
		"fullName":     "Member " + id,
		"email":        id + "@example.com",
		"organization": "Acme Corp",
		"industry":     "Software",
		"role":         "Founder",
		"avatarUrl":    "",
		"trustProxy":   4.0,
	}
	for k, v := range extra {
		record[k] = v
	}
	return record
}

func TestRepository_ActiveRelationships(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubRead("CONNECTED_TO", graph.Result{Records: []graph.Record{
		memberRecord("m-1", map[string]any{"strength": 0.9}),
		memberRecord("m-2", map[string]any{"strength": 0.7, "industry": "", "trustProxy": 3.5}),
	}})
	repo := New(mem)

	neighbors, err := repo.ActiveRelationships(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(neighbors))
	}
	if neighbors[0].Member.ID != "m-1" || neighbors[0].Strength != 0.9 {
		t.Fatalf("unexpected first neighbor: %+v", neighbors[0])
	}
	if neighbors[1].Member.Industry != "General" {
		t.Fatalf("expected industry placeholder, got %q", neighbors[1].Member.Industry)
	}

	calls := mem.ReadCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 read call, got %d", len(calls))
	}
	if calls[0].Params["memberId"] != "req-1" {
		t.Fatalf("expected memberId param, got %v", calls[0].Params)
	}
}

func TestRepository_ActiveRelationshipsRequiresID(t *testing.T) {
	repo := New(graph.NewMemoryClient())
	if _, err := repo.ActiveRelationships(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty member id")
	}
}

func TestRepository_RelationshipExists(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubRead("count(c) > 0", graph.Result{Records: []graph.Record{
		{"connected": true},
	}})
	repo := New(mem)

	connected, err := repo.RelationshipExists(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !connected {
		t.Fatalf("expected connected to be true")
	}
}

func TestRepository_RelationshipExistsNoRecords(t *testing.T) {
	repo := New(graph.NewMemoryClient())
	connected, err := repo.RelationshipExists(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if connected {
		t.Fatalf("expected connected to be false without records")
	}
}

func TestRepository_MembersRatingOrganization(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubRead("RATED", graph.Result{Records: []graph.Record{
		memberRecord("m-1", map[string]any{"score": 5.0, "relationship": "client"}),
		memberRecord("m-1", map[string]any{"score": 2.0, "relationship": "vendor"}),
		memberRecord("m-2", map[string]any{"score": 3.0, "relationship": ""}),
	}})
	repo := New(mem)

	raters, err := repo.MembersRatingOrganization(context.Background(), "  Acme ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(raters) != 2 {
		t.Fatalf("expected duplicate member collapsed, got %d raters", len(raters))
	}
	if raters[0].Member.ID != "m-1" || raters[0].Score != 5.0 || raters[0].Relationship != "client" {
		t.Fatalf("expected most recent rating retained, got %+v", raters[0])
	}

	calls := mem.ReadCalls()
	if calls[0].Params["pattern"] != "acme" {
		t.Fatalf("expected normalized pattern, got %v", calls[0].Params["pattern"])
	}
}

func TestRepository_MembersRatingOrganizationRequiresTarget(t *testing.T) {
	repo := New(graph.NewMemoryClient())
	if _, err := repo.MembersRatingOrganization(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank target")
	}
}

func TestRepository_MemberTrustProxyDefaults(t *testing.T) {
	repo := New(graph.NewMemoryClient())
	proxy, err := repo.MemberTrustProxy(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if proxy != 3.5 {
		t.Fatalf("expected default trust proxy 3.5, got %f", proxy)
	}
}

func TestRepository_FindHubMember(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubRead("LIMIT 1", graph.Result{Records: []graph.Record{
		memberRecord("hub-1", map[string]any{"trustProxy": 4.5}),
	}})
	repo := New(mem)

	hub, found, err := repo.FindHubMember(context.Background(), "hub-1", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !found {
		t.Fatalf("expected hub to be found")
	}
	if hub.ID != "hub-1" || hub.TrustProxy != 4.5 {
		t.Fatalf("unexpected hub: %+v", hub)
	}
}

func TestRepository_FindHubMemberNoIdentity(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	_, found, err := repo.FindHubMember(context.Background(), "", "  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Fatalf("expected hub to be absent without an identity rule")
	}
	if len(mem.ReadCalls()) != 0 {
		t.Fatalf("expected no query without an identity rule")
	}
}

func TestRepository_FindHubMemberAbsentIsNotAnError(t *testing.T) {
	repo := New(graph.NewMemoryClient())
	_, found, err := repo.FindHubMember(context.Background(), "missing", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Fatalf("expected hub to be absent")
	}
}

func TestRepository_ReadFailuresAreWrapped(t *testing.T) {
	boom := errors.New("bolt connection refused")
	repo := New(graph.NewMemoryClient().WithError(boom))

	if _, err := repo.ActiveRelationships(context.Background(), "m-1"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, err := repo.MembersRatingOrganization(context.Background(), "Acme"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, err := repo.RelationshipExists(context.Background(), "a", "b"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestRepository_ListIndustries(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubRead("organizations", graph.Result{Records: []graph.Record{
		{"industry": "Software", "organizations": int64(12)},
		{"industry": "Finance", "organizations": int64(7)},
	}})
	repo := New(mem)

	industries, err := repo.ListIndustries(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(industries) != 2 {
		t.Fatalf("expected 2 industries, got %d", len(industries))
	}
	if industries[0].Industry != "Software" || industries[0].Organizations != 12 {
		t.Fatalf("unexpected first industry: %+v", industries[0])
	}
}

func TestRepository_ListOrganizationsByIndustry(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubRead("ratingCount", graph.Result{Records: []graph.Record{
		{"name": "Acme Corp", "slug": "acme-corp", "industry": "Software", "ratingCount": int64(9), "averageScore": 4.2},
	}})
	repo := New(mem)

	orgs, err := repo.ListOrganizationsByIndustry(context.Background(), " Software ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(orgs) != 1 {
		t.Fatalf("expected 1 organization, got %d", len(orgs))
	}
	if orgs[0].Slug != "acme-corp" || orgs[0].RatingCount != 9 {
		t.Fatalf("unexpected organization: %+v", orgs[0])
	}

	calls := mem.ReadCalls()
	if calls[0].Params["industry"] != "software" {
		t.Fatalf("expected normalized industry filter, got %v", calls[0].Params["industry"])
	}
}

func TestRepository_UpsertMember(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	err := repo.UpsertMember(context.Background(), memberFromRecord(memberRecord("m-1", map[string]any{"industry": ""})))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	writes := mem.WriteCalls()
	if len(writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(writes))
	}
	if !strings.Contains(writes[0].Query, "MERGE (m:Member") {
		t.Fatalf("expected member merge, got %s", writes[0].Query)
	}
	props, ok := writes[0].Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %v", writes[0].Params["props"])
	}
	if props["industry"] != "General" {
		t.Fatalf("expected industry placeholder, got %v", props["industry"])
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Corp":           "acme-corp",
		"  Northwind  AG  ":   "northwind-ag",
		"O'Reilly & Partners": "o-reilly-partners",
		"---":                 "",
	}
	for input, expected := range cases {
		if got := Slugify(input); got != expected {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, expected)
		}
	}
}
