package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/engine"
	"exile-tracker/internal/metrics"
	"exile-tracker/internal/pob"
	"exile-tracker/internal/ranking"
	"exile-tracker/internal/session"
)

// BuildService owns the import pipeline: decode the transfer artifact,
// run the calculation engine, and persist the result as a session.
type BuildService struct {
	importer      *pob.Importer
	engines       engine.Registry
	store         session.Store
	engineTimeout time.Duration
	logger        zerolog.Logger
}

func NewBuildService(importer *pob.Importer, engines engine.Registry, store session.Store, engineTimeout time.Duration, logger zerolog.Logger) *BuildService {
	return &BuildService{
		importer:      importer,
		engines:       engines,
		store:         store,
		engineTimeout: engineTimeout,
		logger:        logger,
	}
}

// Import decodes a transfer artifact into a build, computes derived
// stats, and saves the session. Engine failures are absorbed: the build
// is always stored, with zeroed stats when computation fails.
func (s *BuildService) Import(ctx context.Context, artifact string, game domain.Game) (*domain.Build, error) {
	build, err := s.importer.Import(artifact, game)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(string(game), "error").Inc()
		return nil, err
	}

	stats := s.compute(ctx, game, build.Artifact)
	build.DerivedStats = &stats

	if err := s.store.Save(ctx, build); err != nil {
		metrics.ImportsTotal.WithLabelValues(string(game), "error").Inc()
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	metrics.ImportsTotal.WithLabelValues(string(game), "ok").Inc()
	metrics.ActiveSessions.Inc()

	s.logger.Info().
		Str("session_id", build.SessionID).
		Str("game", string(game)).
		Str("class", build.CharacterClass).
		Int("level", build.Level).
		Int("items", len(build.Items)).
		Bool("stats_computed", !stats.IsZero()).
		Msg("build imported")

	return build, nil
}

func (s *BuildService) compute(ctx context.Context, game domain.Game, artifact string) domain.DerivedStats {
	ctx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	start := time.Now()
	stats := s.engines.For(game).Compute(ctx, artifact)
	metrics.EngineDuration.Observe(time.Since(start).Seconds())

	result := "ok"
	if stats.IsZero() {
		result = "zero"
	}
	metrics.EngineComputations.WithLabelValues(string(game), result).Inc()
	return stats
}

// Get returns a stored build by session ID.
func (s *BuildService) Get(ctx context.Context, sessionID string) (*domain.Build, error) {
	return s.store.Get(ctx, sessionID)
}

// Delete removes a session.
func (s *BuildService) Delete(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	metrics.ActiveSessions.Dec()
	return nil
}

// Analyze classifies a stored build and suggests stat weights.
func (s *BuildService) Analyze(ctx context.Context, sessionID string) (ranking.Analysis, error) {
	build, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return ranking.Analysis{}, err
	}
	return ranking.AnalyzeBuild(build, s.logger), nil
}
