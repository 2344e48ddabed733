package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"exile-tracker/internal/constants"
	"exile-tracker/internal/domain"
	"exile-tracker/internal/metrics"
	"exile-tracker/internal/ranking"
	"exile-tracker/internal/session"
	"exile-tracker/internal/trade"
)

// UpgradeService searches the trade site for candidate items and ranks
// them against what the build currently wears.
type UpgradeService struct {
	trade  *trade.Client
	store  session.Store
	league string
	logger zerolog.Logger
}

func NewUpgradeService(tradeClient *trade.Client, store session.Store, league string, logger zerolog.Logger) *UpgradeService {
	return &UpgradeService{
		trade:  tradeClient,
		store:  store,
		league: league,
		logger: logger,
	}
}

// RankRequest names one slot to shop for. MaxPriceChaos of zero means
// no price ceiling.
type RankRequest struct {
	Slot          domain.Slot        `json:"slot"`
	League        string             `json:"league,omitempty"`
	MaxPriceChaos float64            `json:"max_price_chaos,omitempty"`
	Limit         int                `json:"limit,omitempty"`
	Weights       map[string]float64 `json:"weights,omitempty"`
	SortBy        ranking.SortKey    `json:"sort_by,omitempty"`
}

// SlotResult holds the ranked candidates for one slot.
type SlotResult struct {
	Slot       domain.Slot               `json:"slot"`
	Current    *domain.Item              `json:"current"`
	Candidates []domain.UpgradeCandidate `json:"candidates"`
}

// RankSlot searches and ranks upgrades for a single equipment slot.
func (s *UpgradeService) RankSlot(ctx context.Context, sessionID string, req RankRequest) (*SlotResult, error) {
	build, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.rankSlot(ctx, build, req)
}

// RankSlots ranks several slots concurrently. The trade client's rate
// limiter still serializes the underlying API calls; the concurrency
// buys overlap between search and fetch rounds, not extra throughput.
func (s *UpgradeService) RankSlots(ctx context.Context, sessionID string, reqs []RankRequest) ([]SlotResult, error) {
	build, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	results := make([]SlotResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			r, err := s.rankSlot(gctx, build, req)
			if err != nil {
				return fmt.Errorf("slot %s: %w", req.Slot, err)
			}
			results[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *UpgradeService) rankSlot(ctx context.Context, build *domain.Build, req RankRequest) (*SlotResult, error) {
	if !domain.IsCanonicalSlot(req.Slot) {
		return nil, fmt.Errorf("unknown slot %q", req.Slot)
	}
	current, ok := build.Items[req.Slot]
	if !ok {
		return nil, fmt.Errorf("build has no item in slot %q", req.Slot)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = constants.DefaultRankLimit
	}
	if limit > constants.MaxRankLimit {
		limit = constants.MaxRankLimit
	}
	league := req.League
	if league == "" {
		league = s.league
	}

	query := trade.BuildQuery(trade.QueryOptions{
		BaseType:      current.BaseType,
		MaxPriceChaos: req.MaxPriceChaos,
	})

	listings, err := s.trade.SearchAndFetch(ctx, build.Game, league, query, limit)
	if err != nil {
		return nil, fmt.Errorf("trade search for %s: %w", req.Slot, err)
	}

	ranked := ranking.Rank(current, listings, ranking.Options{
		Weights: req.Weights,
		SortBy:  req.SortBy,
	})
	metrics.RankingsTotal.Inc()

	s.logger.Debug().
		Str("session_id", build.SessionID).
		Str("slot", string(req.Slot)).
		Int("candidates", len(ranked)).
		Msg("slot ranked")

	return &SlotResult{Slot: req.Slot, Current: current, Candidates: ranked}, nil
}
