package ranking

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"exile-tracker/internal/domain"
)

// DefaultWeights is the fixed per-stat weight table used when the caller
// supplies nothing. Life sits highest; secondary attributes lowest. The
// table mixes percentage and flat gain types on purpose: weighting is
// caller-configurable policy, not a law.
var DefaultWeights = map[string]float64{
	"life":          1.0,
	"energy_shield": 0.8,
	"fire_res":      0.6,
	"cold_res":      0.6,
	"lightning_res": 0.6,
	"chaos_res":     0.4,

	"strength":     0.3,
	"dexterity":    0.3,
	"intelligence": 0.3,

	"phys_damage_avg":     0.5,
	"phys_damage_percent": 0.4,
	"crit_multi":          0.5,
	"crit_chance":         0.4,

	"movement_speed": 0.7,
	"attack_speed":   0.5,
	"cast_speed":     0.5,

	"life_percent": 0.8,
	"es_percent":   0.6,
}

// LoadWeightsFile reads a YAML stat->weight map, letting deployments
// override the built-in table without a rebuild.
func LoadWeightsFile(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}
	weights := make(map[string]float64)
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("parse weights file %s: %w", path, err)
	}
	return weights, nil
}

var statDisplayNames = map[string]string{
	"life":                "Life",
	"life_percent":        "Increased Life",
	"energy_shield":       "Energy Shield",
	"es_percent":          "Increased Energy Shield",
	"fire_res":            "Fire Resistance",
	"cold_res":            "Cold Resistance",
	"lightning_res":       "Lightning Resistance",
	"chaos_res":           "Chaos Resistance",
	"strength":            "Strength",
	"dexterity":           "Dexterity",
	"intelligence":        "Intelligence",
	"phys_damage_avg":     "Physical Damage (Avg)",
	"phys_damage_percent": "Physical Damage %",
	"crit_multi":          "Critical Strike Multiplier",
	"crit_chance":         "Critical Strike Chance",
	"movement_speed":      "Movement Speed",
	"attack_speed":        "Attack Speed",
	"cast_speed":          "Cast Speed",
}

func statCategory(key string) string {
	switch {
	case key == "life" || key == "life_percent" || key == "energy_shield" || key == "es_percent":
		return "defense"
	case strings.HasSuffix(key, "_res"):
		return "resistance"
	case key == "strength" || key == "dexterity" || key == "intelligence":
		return "attribute"
	case strings.Contains(key, "damage") || strings.Contains(key, "crit"):
		return "damage"
	default:
		return "utility"
	}
}

func displayName(key string) string {
	if name, ok := statDisplayNames[key]; ok {
		return name
	}
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// StatDefinitions lists every canonical stat key with its display
// metadata, ordered by category then key for a stable catalog.
func StatDefinitions() []domain.StatDefinition {
	defs := make([]domain.StatDefinition, 0, len(DefaultWeights))
	for key, weight := range DefaultWeights {
		defs = append(defs, domain.StatDefinition{
			Key:           key,
			DisplayName:   displayName(key),
			Category:      statCategory(key),
			DefaultWeight: weight,
		})
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Category != defs[j].Category {
			return defs[i].Category < defs[j].Category
		}
		return defs[i].Key < defs[j].Key
	})
	return defs
}
