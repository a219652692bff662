package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anika/trustpath/backend/internal/domain"
	"github.com/anika/trustpath/backend/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.RouteService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.RouteService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	requesterID := query.Get("requesterId")
	organization := query.Get("organization")

	result, err := h.service.FindRoutes(r.Context(), requesterID, organization)
	if err != nil {
		if errors.Is(err, service.ErrEmptyRequester) || errors.Is(err, service.ErrEmptyTargetOrganization) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("route query failed", "error", err, "requesterId", requesterID, "organization", organization)
		writeError(w, http.StatusInternalServerError, "failed to compute introduction routes")
		return
	}

	response := routeResultResponse{
		RequesterID:  requesterID,
		Organization: organization,
		Routes:       []routeResponse{},
		Analysis: routeAnalysisResponse{
			TotalRoutes:           result.Analysis.TotalRoutes,
			AvgSuccessProbability: result.Analysis.AvgSuccessProbability,
			HubUserAvailable:      result.Analysis.HubUserAvailable,
		},
	}
	for _, route := range result.Routes {
		response.Routes = append(response.Routes, toRouteResponse(route))
	}
	if result.Analysis.BestRoute != nil {
		best := toRouteResponse(*result.Analysis.BestRoute)
		response.Analysis.BestRoute = &best
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleIndustries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	industries, err := h.service.ListIndustries(r.Context())
	if err != nil {
		h.logger.Error("failed to list industries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list industries")
		return
	}

	response := industriesResponse{Industries: []industryCountResponse{}}
	for _, item := range industries {
		response.Industries = append(response.Industries, industryCountResponse{
			Industry:      item.Industry,
			Organizations: item.Organizations,
		})
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	industry := r.URL.Query().Get("industry")
	orgs, err := h.service.SearchOrganizations(r.Context(), industry)
	if err != nil {
		h.logger.Error("failed to search organizations", "error", err, "industry", industry)
		writeError(w, http.StatusInternalServerError, "failed to search organizations")
		return
	}

	response := organizationsResponse{Organizations: []organizationSummaryResponse{}}
	for _, org := range orgs {
		response.Organizations = append(response.Organizations, organizationSummaryResponse{
			Name:         org.Name,
			Slug:         org.Slug,
			Industry:     org.Industry,
			RatingCount:  org.RatingCount,
			AverageScore: org.AverageScore,
		})
	}

	respondJSON(w, http.StatusOK, response)
}

// --- Response DTOs ---

type memberResponse struct {
	MemberID     string  `json:"memberId"`
	FullName     string  `json:"fullName"`
	Organization string  `json:"organization,omitempty"`
	Industry     string  `json:"industry,omitempty"`
	Role         string  `json:"role,omitempty"`
	AvatarURL    string  `json:"avatarUrl,omitempty"`
	TrustProxy   float64 `json:"trustProxy"`
}

type routeResponse struct {
	Path               []memberResponse `json:"path"`
	Tier               string           `json:"tier"`
	TrustScore         float64          `json:"trustScore"`
	Efficiency         float64          `json:"efficiency"`
	SuccessProbability float64          `json:"successProbability"`
	EstimatedDays      int              `json:"estimatedDays"`
}

type routeAnalysisResponse struct {
	TotalRoutes           int            `json:"totalRoutes"`
	BestRoute             *routeResponse `json:"bestRoute,omitempty"`
	AvgSuccessProbability float64        `json:"avgSuccessProbability"`
	HubUserAvailable      bool           `json:"hubUserAvailable"`
}

type routeResultResponse struct {
	RequesterID  string                `json:"requesterId"`
	Organization string                `json:"organization"`
	Routes       []routeResponse       `json:"routes"`
	Analysis     routeAnalysisResponse `json:"analysis"`
}

type industryCountResponse struct {
	Industry      string `json:"industry"`
	Organizations int64  `json:"organizations"`
}

type industriesResponse struct {
	Industries []industryCountResponse `json:"industries"`
}

type organizationSummaryResponse struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug,omitempty"`
	Industry     string  `json:"industry"`
	RatingCount  int64   `json:"ratingCount"`
	AverageScore float64 `json:"averageScore"`
}

type organizationsResponse struct {
	Organizations []organizationSummaryResponse `json:"organizations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toRouteResponse(route domain.Route) routeResponse {
	resp := routeResponse{
		Path:               make([]memberResponse, 0, len(route.Path)),
		Tier:               string(route.Tier),
		TrustScore:         route.TrustScore,
		Efficiency:         route.Efficiency,
		SuccessProbability: route.SuccessProbability,
		EstimatedDays:      route.EstimatedDays,
	}
	for _, member := range route.Path {
		resp.Path = append(resp.Path, memberResponse{
			MemberID:     member.ID,
			FullName:     member.FullName,
			Organization: member.Organization,
			Industry:     member.Industry,
			Role:         member.Role,
			AvatarURL:    member.AvatarURL,
			TrustProxy:   member.TrustProxy,
		})
	}
	return resp
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method not allowed, use %s", strings.Join(allowed, ", ")))
}
