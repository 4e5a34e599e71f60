package server

import (
	"context"
	"fmt"

	"github.com/vanshika/agegraph/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies graph connectivity as part of health checks.
// When Graph is set the probe also requires that graph to exist.
type GraphHealthService struct {
	Client graph.Client
	Graphs GraphService
	Graph  string
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return err
	}
	if s.Graph == "" || s.Graphs == nil {
		return nil
	}
	exists, err := s.Graphs.GraphExists(ctx, s.Graph)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("graph %s does not exist", s.Graph)
	}
	return nil
}
