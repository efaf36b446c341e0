// Package health aggregates dependency probes for the readiness endpoint.
package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
)

const probeTimeout = 5 * time.Second

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the readiness report for one dependency.
type Status struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Report maps dependency name to its probe result.
type Report map[string]Status

// Healthy reports whether every dependency probe passed.
func (r Report) Healthy() bool {
	for _, s := range r {
		if !s.Healthy {
			return false
		}
	}
	return true
}

// Service probes storage and the embedding provider.
type Service struct {
	store   Pinger
	encoder domain.HealthChecker
	logger  *zap.Logger
}

// New creates a health service. encoder may be nil when no provider probe is
// configured.
func New(store Pinger, encoder domain.HealthChecker, logger *zap.Logger) *Service {
	return &Service{store: store, encoder: encoder, logger: logger}
}

// Check probes every dependency with a bounded timeout.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	report := Report{}

	report["storage"] = s.probe(func() error { return s.store.Ping(ctx) })

	if s.encoder != nil {
		report["encoder"] = s.probe(func() error { return s.encoder.HealthCheck(ctx) })
	}

	return report
}

func (s *Service) probe(fn func() error) Status {
	if err := fn(); err != nil {
		s.logger.Warn("Dependency probe failed", zap.Error(err))
		return Status{Healthy: false, Error: err.Error()}
	}
	return Status{Healthy: true}
}
