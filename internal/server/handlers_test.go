package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anika/trustpath/backend/internal/domain"
	"github.com/anika/trustpath/backend/internal/service"
)

type fakeNetworkRepo struct {
	neighbors []domain.Neighbor
	raters    []domain.OrganizationRater
	err       error
}

func (f *fakeNetworkRepo) ActiveRelationships(context.Context, string) ([]domain.Neighbor, error) {
	return f.neighbors, f.err
}

func (f *fakeNetworkRepo) RelationshipExists(context.Context, string, string) (bool, error) {
	return false, f.err
}

func (f *fakeNetworkRepo) MembersRatingOrganization(context.Context, string) ([]domain.OrganizationRater, error) {
	return f.raters, f.err
}

func (f *fakeNetworkRepo) MemberTrustProxy(context.Context, string) (float64, error) {
	return domain.DefaultTrustProxy, f.err
}

type fakeDirectory struct {
	industries []domain.IndustryCount
	orgs       []domain.OrganizationSummary
	err        error
}

func (f *fakeDirectory) ListIndustries(context.Context) ([]domain.IndustryCount, error) {
	return f.industries, f.err
}

func (f *fakeDirectory) ListOrganizationsByIndustry(context.Context, string) ([]domain.OrganizationSummary, error) {
	return f.orgs, f.err
}

type fakeHubResolver struct{}

func (fakeHubResolver) Resolve(context.Context) (domain.Member, bool, error) {
	return domain.Member{}, false, nil
}

type fakeHealth struct {
	err error
}

func (f fakeHealth) Probe(context.Context) error {
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(repo *fakeNetworkRepo, dir *fakeDirectory, health HealthService) http.Handler {
	logger := testLogger()
	svc := service.NewRouteService(repo, dir, fakeHubResolver{}, logger)
	return NewRouter(logger, RouterDependencies{
		Health: health,
		API:    NewAPIHandlers(logger, svc),
	})
}

func TestHandleRoutes_RejectsMissingParams(t *testing.T) {
	router := newTestRouter(&fakeNetworkRepo{}, &fakeDirectory{}, nil)

	cases := []struct {
		name string
		url  string
	}{
		{"missing requester", "/routes?organization=Acme"},
		{"missing organization", "/routes?requesterId=m-1"},
		{"blank requester", "/routes?requesterId=%20&organization=Acme"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Error == "" {
				t.Fatalf("expected an error message in the body")
			}
		})
	}
}

func TestHandleRoutes_ReturnsRankedRoutes(t *testing.T) {
	peer := domain.Member{
		ID:           "m-2",
		FullName:     "Dana Peer",
		Organization: "Acme Corp",
		Industry:     "Software",
		TrustProxy:   4.0,
	}
	repo := &fakeNetworkRepo{
		neighbors: []domain.Neighbor{{Member: peer, Strength: 0.8}},
	}
	router := newTestRouter(repo, &fakeDirectory{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/routes?requesterId=m-1&organization=Acme+Corp", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body routeResultResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.RequesterID != "m-1" || body.Organization != "Acme Corp" {
		t.Fatalf("expected inputs echoed, got %+v", body)
	}
	if len(body.Routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(body.Routes))
	}
	route := body.Routes[0]
	if route.Tier != "DIRECT" {
		t.Fatalf("expected DIRECT tier, got %s", route.Tier)
	}
	if len(route.Path) != 1 || route.Path[0].MemberID != "m-2" {
		t.Fatalf("unexpected path: %+v", route.Path)
	}
	if body.Analysis.TotalRoutes != 1 || body.Analysis.BestRoute == nil {
		t.Fatalf("unexpected analysis: %+v", body.Analysis)
	}
}

func TestHandleRoutes_EmptyNetworkYieldsEmptyResult(t *testing.T) {
	router := newTestRouter(&fakeNetworkRepo{}, &fakeDirectory{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/routes?requesterId=m-1&organization=Acme", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body routeResultResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Routes) != 0 {
		t.Fatalf("expected no routes, got %d", len(body.Routes))
	}
	if body.Analysis.BestRoute != nil {
		t.Fatalf("expected no best route")
	}
}

func TestHandleRoutes_StoreFailureDegradesToEmpty(t *testing.T) {
	repo := &fakeNetworkRepo{err: errors.New("bolt connection refused")}
	router := newTestRouter(repo, &fakeDirectory{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/routes?requesterId=m-1&organization=Acme", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded query to answer 200, got %d", rec.Code)
	}
	var body routeResultResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Routes) != 0 {
		t.Fatalf("expected no routes when the store is unreachable, got %d", len(body.Routes))
	}
}

func TestHandleRoutes_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(&fakeNetworkRepo{}, &fakeDirectory{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/routes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Fatalf("expected Allow header %q, got %q", http.MethodGet, allow)
	}
}

func TestHandleIndustries(t *testing.T) {
	dir := &fakeDirectory{industries: []domain.IndustryCount{
		{Industry: "Software", Organizations: 12},
		{Industry: "Finance", Organizations: 7},
	}}
	router := newTestRouter(&fakeNetworkRepo{}, dir, nil)

	req := httptest.NewRequest(http.MethodGet, "/industries", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body industriesResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Industries) != 2 || body.Industries[0].Industry != "Software" {
		t.Fatalf("unexpected industries: %+v", body.Industries)
	}
}

func TestHandleIndustries_StoreFailure(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("bolt connection refused")}
	router := newTestRouter(&fakeNetworkRepo{}, dir, nil)

	req := httptest.NewRequest(http.MethodGet, "/industries", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestHandleOrganizations(t *testing.T) {
	dir := &fakeDirectory{orgs: []domain.OrganizationSummary{
		{Name: "Acme Corp", Slug: "acme-corp", Industry: "Software", RatingCount: 9, AverageScore: 4.2},
	}}
	router := newTestRouter(&fakeNetworkRepo{}, dir, nil)

	req := httptest.NewRequest(http.MethodGet, "/organizations?industry=software", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body organizationsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Organizations) != 1 || body.Organizations[0].Slug != "acme-corp" {
		t.Fatalf("unexpected organizations: %+v", body.Organizations)
	}
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newTestRouter(&fakeNetworkRepo{}, &fakeDirectory{}, fakeHealth{})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("degraded", func(t *testing.T) {
		router := newTestRouter(&fakeNetworkRepo{}, &fakeDirectory{}, fakeHealth{err: errors.New("connectivity check failed")})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d", rec.Code)
		}
		var body map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["status"] != "degraded" {
			t.Fatalf("expected degraded status, got %v", body["status"])
		}
	})
}

func TestCORSMiddleware(t *testing.T) {
	logger := testLogger()
	svc := service.NewRouteService(&fakeNetworkRepo{}, &fakeDirectory{}, fakeHubResolver{}, logger)
	router := NewRouter(logger, RouterDependencies{
		API:            NewAPIHandlers(logger, svc),
		AllowedOrigins: []string{"https://app.trustpath.network"},
	})

	t.Run("allowed origin preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/routes", nil)
		req.Header.Set("Origin", "https://app.trustpath.network")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.trustpath.network" {
			t.Fatalf("unexpected allow-origin header %q", got)
		}
	})

	t.Run("unknown origin preflight rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/routes", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", rec.Code)
		}
	})
}
