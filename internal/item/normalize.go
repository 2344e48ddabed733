// Package item normalizes equipment records from the upstream source
// shapes (trade market search, ladder export, desktop tool item text)
// into the one canonical Item type the rest of the pipeline consumes.
package item

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"exile-tracker/internal/affix"
	"exile-tracker/internal/domain"
)

// SourceFormat identifies which upstream wire shape a raw record uses.
type SourceFormat string

const (
	SourceMarket SourceFormat = "market"
	SourceLadder SourceFormat = "ladder"
	SourcePoB    SourceFormat = "pob"
)

// MissingRequiredFieldError rejects a record that carries neither a
// rarity nor a base type; nothing useful can be built from it. Every
// other shape mismatch degrades to partial construction instead.
type MissingRequiredFieldError struct {
	Source SourceFormat
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("item from %s source missing both rarity and base type", e.Source)
}

type Normalizer struct {
	logger zerolog.Logger
}

func NewNormalizer(logger zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger.With().Str("component", "normalizer").Logger()}
}

// Normalize dispatches a raw record to the adapter for its source format.
// For market and ladder sources raw is the JSON document; for the desktop
// tool source it is the line-based item text.
func (n *Normalizer) Normalize(raw []byte, source SourceFormat) (*domain.Item, error) {
	switch source {
	case SourceMarket:
		var rec MarketItem
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode market item: %w", err)
		}
		return n.NormalizeMarket(rec)
	case SourceLadder:
		var rec LadderItem
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode ladder item: %w", err)
		}
		return n.NormalizeLadder(rec)
	case SourcePoB:
		return n.NormalizeItemText(string(raw))
	default:
		return nil, fmt.Errorf("no adapter for source format %q", source)
	}
}

// kindFromString maps a source's modifier-kind string onto the canonical
// set. Unknown kinds become "other" rather than being rejected.
func kindFromString(s string) domain.ModifierKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "implicit":
		return domain.KindImplicit
	case "explicit":
		return domain.KindExplicit
	case "crafted":
		return domain.KindCrafted
	case "enchant":
		return domain.KindEnchant
	case "fractured":
		return domain.KindFractured
	case "crucible":
		return domain.KindCrucible
	case "scourge":
		return domain.KindScourge
	default:
		return domain.KindOther
	}
}

// rarityFromString maps loosely-cased rarity strings; anything
// unrecognized falls back to normal as the best-effort default.
func rarityFromString(s string) domain.Rarity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "magic":
		return domain.RarityMagic
	case "rare":
		return domain.RarityRare
	case "unique", "relic":
		return domain.RarityUnique
	default:
		return domain.RarityNormal
	}
}

func extractAll(lines []string, kind domain.ModifierKind) []domain.Modifier {
	mods := make([]domain.Modifier, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		mods = append(mods, affix.Extract(line, kind))
	}
	return mods
}
