package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
)

// ErrPresetNotFound is returned when no preset exists for the given ID.
var ErrPresetNotFound = errors.New("weight preset not found")

type PresetRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPresetRepository(sqlDB *sql.DB, logger zerolog.Logger) *PresetRepository {
	return &PresetRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *PresetRepository) Create(ctx context.Context, preset *domain.WeightPreset) error {
	weights, err := json.Marshal(preset.Weights)
	if err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}

	now := time.Now()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO weight_presets (name, game, weights, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		preset.Name, string(preset.Game), weights, now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("name", preset.Name).Msg("failed to create preset")
		return fmt.Errorf("failed to create preset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read preset id: %w", err)
	}
	preset.ID = id

	r.logger.Debug().Int64("id", id).Str("name", preset.Name).Msg("preset created")
	return nil
}

func (r *PresetRepository) Get(ctx context.Context, id int64) (*domain.WeightPreset, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, game, weights FROM weight_presets WHERE id = ?`, id)
	return scanPreset(row)
}

func (r *PresetRepository) List(ctx context.Context, game domain.Game) ([]domain.WeightPreset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, game, weights FROM weight_presets WHERE game = ? ORDER BY name`,
		string(game),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	var presets []domain.WeightPreset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

func (r *PresetRepository) Update(ctx context.Context, preset *domain.WeightPreset) error {
	weights, err := json.Marshal(preset.Weights)
	if err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE weight_presets SET name = ?, weights = ?, updated_at = ? WHERE id = ?`,
		preset.Name, weights, time.Now(), preset.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update preset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

func (r *PresetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM weight_presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrPresetNotFound
	}
	r.logger.Debug().Int64("id", id).Msg("preset deleted")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (*domain.WeightPreset, error) {
	var (
		p       domain.WeightPreset
		game    string
		weights []byte
	)
	err := row.Scan(&p.ID, &p.Name, &game, &weights)
	if err == sql.ErrNoRows {
		return nil, ErrPresetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan preset: %w", err)
	}

	p.Game = domain.Game(game)
	if err := json.Unmarshal(weights, &p.Weights); err != nil {
		return nil, fmt.Errorf("failed to decode weights: %w", err)
	}
	return &p, nil
}
