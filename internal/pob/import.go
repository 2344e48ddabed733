package pob

import (
	"encoding/xml"
	"strconv"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/item"
)

type Importer struct {
	normalizer *item.Normalizer
	logger     zerolog.Logger
}

func NewImporter(normalizer *item.Normalizer, logger zerolog.Logger) *Importer {
	return &Importer{
		normalizer: normalizer,
		logger:     logger.With().Str("component", "importer").Logger(),
	}
}

// Import turns a build artifact into a Build. The artifact is either the
// raw XML document or a transfer code; codes are decoded first, and a
// failed decode falls back to a direct parse before giving up, since
// callers sometimes hand us the decoded document directly.
func (im *Importer) Import(artifact string, game domain.Game) (*domain.Build, error) {
	trimmed := strings.TrimSpace(artifact)
	if trimmed == "" {
		return nil, &ImportError{Reason: "artifact is empty"}
	}

	if strings.HasPrefix(trimmed, "<") {
		return im.parseDocument(trimmed, game)
	}

	doc, decodeErr := DecodeTransferCode(artifact)
	if decodeErr != nil {
		// Not every caller base64s the document; try it as-is.
		if build, err := im.parseDocument(trimmed, game); err == nil {
			return build, nil
		}
		return nil, decodeErr
	}

	return im.parseDocument(doc, game)
}

func (im *Importer) parseDocument(content string, game domain.Game) (*domain.Build, error) {
	var doc document
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, &ImportError{Reason: "artifact is not a valid build document", Err: err}
	}

	if doc.Build.ClassName == "" {
		return nil, &ImportError{Reason: "build document missing character class"}
	}
	level, err := strconv.Atoi(doc.Build.Level)
	if err != nil {
		return nil, &ImportError{Reason: "build document has invalid level " + strconv.Quote(doc.Build.Level)}
	}

	sessionID, err := gonanoid.New()
	if err != nil {
		return nil, &ImportError{Reason: "could not allocate session id", Err: err}
	}

	name := doc.Build.BuildName
	if name == "" {
		name = "Unnamed Build"
	}

	build := &domain.Build{
		SessionID:      sessionID,
		Game:           game,
		Name:           name,
		CharacterClass: doc.Build.ClassName,
		Ascendancy:     doc.Build.AscendClass,
		Level:          level,
		League:         doc.Build.League,
		Items:          im.extractItems(doc),
		Artifact:       content,
	}
	im.applyPlayerStats(build, doc.Build.PlayerStats)

	im.logger.Info().
		Str("session_id", build.SessionID).
		Str("class", build.CharacterClass).
		Int("level", build.Level).
		Int("slots", len(build.Items)).
		Msg("build imported")

	return build, nil
}

// applyPlayerStats copies the raw totals the document reports. These are
// pre-calculation values; the calculation engine supersedes them when it
// is available.
func (im *Importer) applyPlayerStats(build *domain.Build, stats []playerStat) {
	for _, s := range stats {
		v, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			continue
		}
		switch s.Stat {
		case "Life":
			build.Life = int(v)
		case "EnergyShield":
			build.EnergyShield = int(v)
		case "Mana":
			build.Mana = int(v)
		case "Armour":
			build.Armour = int(v)
		case "Evasion":
			build.Evasion = int(v)
		}
	}
}

// extractItems walks the equipped-items collection of the active item
// set. Slots without an item payload are simply absent; duplicate slot
// identifiers keep the last occurrence; identifiers outside the slot
// table are dropped with a warning.
func (im *Importer) extractItems(doc document) map[domain.Slot]*domain.Item {
	byID := make(map[string]*domain.Item, len(doc.Items.Items))
	for _, el := range doc.Items.Items {
		text := strings.TrimSpace(el.Text)
		if el.ID == "" || text == "" {
			continue
		}
		it, err := im.normalizer.NormalizeItemText(text)
		if err != nil {
			// Per-item failures never abort the import.
			im.logger.Warn().Err(err).Str("item_id", el.ID).Msg("skipping unnormalizable item")
			continue
		}
		byID[el.ID] = it
	}

	activeSet := doc.Items.ActiveItemSet
	if activeSet == "" {
		activeSet = "1"
	}

	items := make(map[domain.Slot]*domain.Item)
	for _, set := range doc.Items.ItemSets {
		if set.ID != activeSet {
			continue
		}
		for _, slot := range set.Slots {
			if slot.ItemID == "" || slot.ItemID == "0" {
				continue // empty slot: absent, not nil
			}
			if isAuxiliarySlot(slot.Name) {
				continue
			}
			canonical, ok := ResolveSlot(item.SourcePoB, slot.Name)
			if !ok {
				im.logger.Warn().Str("slot", slot.Name).Msg("dropping unrecognized slot identifier")
				continue
			}
			it, ok := byID[slot.ItemID]
			if !ok {
				continue
			}
			items[canonical] = it // last occurrence wins
		}
	}
	return items
}
