package ranking

import (
	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
)

// Archetype buckets a build by its primary defensive layer.
type Archetype string

const (
	ArchetypeLife    Archetype = "life_based"
	ArchetypeES      Archetype = "es_based"
	ArchetypeUnknown Archetype = "unknown"
)

const (
	esArchetypeThreshold   = 2500
	lifeArchetypeThreshold = 500
	levelingCutoff         = 70
)

// Analysis is the output of analyzing one build: its archetype, the
// weights we'd suggest for upgrade searches, and per-slot priorities.
type Analysis struct {
	Archetype         Archetype                `json:"archetype"`
	SuggestedWeights  map[string]float64       `json:"suggested_weights"`
	UpgradePriorities map[domain.Slot][]string `json:"upgrade_priorities"`
	CurrentStats      map[string]float64       `json:"current_stats"`
}

// AnalyzeBuild derives stat priorities from a build's totals using
// rule-based heuristics. Engine-derived totals take precedence over the
// raw document totals when the engine ran.
func AnalyzeBuild(build *domain.Build, logger zerolog.Logger) Analysis {
	life := float64(build.Life)
	es := float64(build.EnergyShield)
	if build.DerivedStats != nil && !build.DerivedStats.IsZero() {
		life = build.DerivedStats.Life
		es = build.DerivedStats.EnergyShield
	}

	archetype := ArchetypeUnknown
	switch {
	case es > esArchetypeThreshold:
		archetype = ArchetypeES
	case life > lifeArchetypeThreshold:
		archetype = ArchetypeLife
	}

	weights := suggestWeights(archetype, build.Level)

	priorities := make(map[domain.Slot][]string, len(build.Items))
	for slot := range build.Items {
		if archetype == ArchetypeES {
			priorities[slot] = []string{"energy_shield", "es_percent"}
		} else {
			priorities[slot] = []string{"life", "fire_res", "cold_res"}
		}
	}

	logger.Info().
		Str("session_id", build.SessionID).
		Str("archetype", string(archetype)).
		Int("slots", len(priorities)).
		Msg("build analyzed")

	return Analysis{
		Archetype:         archetype,
		SuggestedWeights:  weights,
		UpgradePriorities: priorities,
		CurrentStats: map[string]float64{
			"life":          life,
			"energy_shield": es,
			"level":         float64(build.Level),
		},
	}
}

func suggestWeights(archetype Archetype, level int) map[string]float64 {
	weights := make(map[string]float64, len(DefaultWeights))
	for k, v := range DefaultWeights {
		weights[k] = v
	}

	switch archetype {
	case ArchetypeES:
		weights["energy_shield"] = 2.0
		weights["es_percent"] = 1.5
		weights["life"] = 0.1
	case ArchetypeLife:
		weights["life"] = 2.0
		weights["life_percent"] = 1.2
		weights["energy_shield"] = 0.1
	default:
		weights["life"] = 1.5
		weights["energy_shield"] = 0.5
	}

	// Leveling characters need resistances far more than endgame ones,
	// where the caps are assumed handled.
	if level < levelingCutoff {
		weights["fire_res"] = 2.0
		weights["cold_res"] = 2.0
		weights["lightning_res"] = 2.0
		weights["chaos_res"] = 0.5
	} else {
		weights["fire_res"] = 0.8
		weights["cold_res"] = 0.8
		weights["lightning_res"] = 0.8
		weights["chaos_res"] = 0.6
	}

	weights["movement_speed"] = 1.0
	weights["attack_speed"] = 0.7
	weights["cast_speed"] = 0.7

	return weights
}
