package ranking

import (
	"sort"

	"exile-tracker/internal/domain"
)

// SortKey selects the ordering dimension for ranked candidates.
type SortKey string

const (
	SortByImprovement SortKey = "improvement_score"
	SortByValue       SortKey = "value_score"
)

// Options configures one ranking run. A nil Weights map means the
// default table; a non-nil map overrides per stat, with the default
// table backing any key it doesn't mention.
type Options struct {
	Weights map[string]float64
	SortBy  SortKey
}

func (o Options) weight(stat string) float64 {
	if o.Weights != nil {
		if w, ok := o.Weights[stat]; ok {
			return w
		}
	}
	return DefaultWeights[stat]
}

// Rank scores every candidate listing against the current item and
// returns them ordered by the selected key, best first. Pure and
// deterministic: identical inputs produce identical ordering; score
// ties break by ascending price, and full ties keep input order.
func Rank(current *domain.Item, candidates []domain.Listing, opts Options) []domain.UpgradeCandidate {
	if opts.SortBy == "" {
		opts.SortBy = SortByImprovement
	}

	currentStats := ItemStats(current)

	ranked := make([]domain.UpgradeCandidate, 0, len(candidates))
	for _, listing := range candidates {
		ranked = append(ranked, score(currentStats, listing, opts))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := sortValue(ranked[i], opts.SortBy), sortValue(ranked[j], opts.SortBy)
		if a != b {
			return a > b
		}
		return ranked[i].Listing.Price.LessThan(ranked[j].Listing.Price)
	})

	return ranked
}

func sortValue(c domain.UpgradeCandidate, key SortKey) float64 {
	if key == SortByValue {
		return c.ValueScore
	}
	return c.ImprovementScore
}

func score(currentStats map[string]float64, listing domain.Listing, opts Options) domain.UpgradeCandidate {
	candidateStats := ItemStats(listing.Item)

	improvements := make(map[string]float64)
	for stat := range currentStats {
		if delta := candidateStats[stat] - currentStats[stat]; delta != 0 {
			improvements[stat] = delta
		}
	}
	for stat, v := range candidateStats {
		if _, seen := currentStats[stat]; !seen && v != 0 {
			improvements[stat] = v
		}
	}

	var improvementScore float64
	for stat, delta := range improvements {
		improvementScore += delta * opts.weight(stat)
	}

	valueScore := domain.FreeValueScore
	if !listing.Price.IsZero() {
		valueScore = improvementScore / listing.PriceFloat()
	}

	return domain.UpgradeCandidate{
		Listing:          listing,
		Improvements:     improvements,
		ImprovementScore: improvementScore,
		ValueScore:       valueScore,
	}
}
