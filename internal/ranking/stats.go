// Package ranking scores market candidates against a player's current
// gear: normalized stat extraction, weighted improvement scores, and
// deterministic ordering.
package ranking

import (
	"regexp"
	"strconv"

	"exile-tracker/internal/domain"
)

// statPattern maps one recognizable modifier phrasing onto a normalized
// stat key. Each modifier line matches at most one pattern (first hit
// wins); repeated stats across lines sum.
type statPattern struct {
	re      *regexp.Regexp
	key     string
	extract func(groups []string) float64
}

func firstGroup(groups []string) float64 {
	v, _ := strconv.ParseFloat(groups[1], 64)
	return v
}

// average of a "Adds X to Y" damage pair
func pairAverage(groups []string) float64 {
	lo, _ := strconv.ParseFloat(groups[1], 64)
	hi, _ := strconv.ParseFloat(groups[2], 64)
	return (lo + hi) / 2
}

var statPatterns = []statPattern{
	{regexp.MustCompile(`(?i)\+(\d+) to maximum Life`), "life", firstGroup},
	{regexp.MustCompile(`(?i)(\d+)% increased maximum Life`), "life_percent", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+) to maximum Energy Shield`), "energy_shield", firstGroup},
	{regexp.MustCompile(`(?i)(\d+)% increased maximum Energy Shield`), "es_percent", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+)% to Fire Resistance`), "fire_res", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+)% to Cold Resistance`), "cold_res", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+)% to Lightning Resistance`), "lightning_res", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+)% to Chaos Resistance`), "chaos_res", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+)% to all Elemental Resistances`), "all_res", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+) to Strength`), "strength", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+) to Dexterity`), "dexterity", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+) to Intelligence`), "intelligence", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+) to all Attributes`), "all_attributes", firstGroup},
	{regexp.MustCompile(`(?i)Adds (\d+) to (\d+) Physical Damage`), "phys_damage_avg", pairAverage},
	{regexp.MustCompile(`(?i)(\d+)% increased Physical Damage`), "phys_damage_percent", firstGroup},
	{regexp.MustCompile(`(?i)(\d+)% increased Attack Speed`), "attack_speed", firstGroup},
	{regexp.MustCompile(`(?i)(\d+)% increased Cast Speed`), "cast_speed", firstGroup},
	{regexp.MustCompile(`(?i)\+(\d+)% to Global Critical Strike Multiplier`), "crit_multi", firstGroup},
	{regexp.MustCompile(`(?i)(\d+)% increased Global Critical Strike Chance`), "crit_chance", firstGroup},
	{regexp.MustCompile(`(?i)(\d+)% increased Movement Speed`), "movement_speed", firstGroup},
}

// StatsFromLines extracts normalized stats from modifier text lines.
func StatsFromLines(lines []string) map[string]float64 {
	stats := make(map[string]float64)
	for _, line := range lines {
		for _, p := range statPatterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			stats[p.key] += p.extract(m)
			break
		}
	}
	return stats
}

// ItemStats extracts normalized stats from every modifier on an item and
// folds the "all elemental resistances" / "all attributes" umbrellas
// into their per-stat totals.
func ItemStats(it *domain.Item) map[string]float64 {
	if it == nil {
		return map[string]float64{}
	}
	return foldTotals(StatsFromLines(it.ModifierTexts()))
}

func foldTotals(stats map[string]float64) map[string]float64 {
	if allRes, ok := stats["all_res"]; ok {
		for _, key := range []string{"fire_res", "cold_res", "lightning_res"} {
			stats[key] += allRes
		}
		delete(stats, "all_res")
	}
	if allAttr, ok := stats["all_attributes"]; ok {
		for _, key := range []string{"strength", "dexterity", "intelligence"} {
			stats[key] += allAttr
		}
		delete(stats, "all_attributes")
	}
	return stats
}
