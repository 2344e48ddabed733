package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/ranking"
	"exile-tracker/internal/repository"
)

// PresetService manages named stat-weight configurations.
type PresetService struct {
	repo   *repository.PresetRepository
	logger zerolog.Logger
}

func NewPresetService(repo *repository.PresetRepository, logger zerolog.Logger) *PresetService {
	return &PresetService{repo: repo, logger: logger}
}

func (s *PresetService) Create(ctx context.Context, preset *domain.WeightPreset) error {
	if err := validatePreset(preset); err != nil {
		return err
	}
	return s.repo.Create(ctx, preset)
}

func (s *PresetService) Get(ctx context.Context, id int64) (*domain.WeightPreset, error) {
	return s.repo.Get(ctx, id)
}

func (s *PresetService) List(ctx context.Context, game domain.Game) ([]domain.WeightPreset, error) {
	return s.repo.List(ctx, game)
}

func (s *PresetService) Update(ctx context.Context, preset *domain.WeightPreset) error {
	if err := validatePreset(preset); err != nil {
		return err
	}
	return s.repo.Update(ctx, preset)
}

func (s *PresetService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validatePreset(preset *domain.WeightPreset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	if len(preset.Weights) == 0 {
		return fmt.Errorf("preset needs at least one weight")
	}
	for key := range preset.Weights {
		if _, ok := ranking.DefaultWeights[key]; !ok {
			return fmt.Errorf("unknown stat key %q", key)
		}
	}
	return nil
}
