package server

import (
	"context"
	"fmt"

	"github.com/anika/trustpath/backend/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService reports readiness based on graph connectivity. A
// nil client probes healthy, which keeps the endpoint useful in setups
// that run the API without a backing store.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("graph connectivity: %w", err)
	}
	return nil
}
