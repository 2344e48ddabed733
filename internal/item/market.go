package item

import (
	"fmt"
	"strings"

	"exile-tracker/internal/domain"
)

// MarketItem is the trade search API's item shape, as returned inside a
// fetch response. Rarity arrives as a numeric frame type; modifier lines
// arrive pre-bucketed by kind.
type MarketItem struct {
	Name      string `json:"name"`
	TypeLine  string `json:"typeLine"`
	BaseType  string `json:"baseType"`
	FrameType *int   `json:"frameType"`
	Ilvl      int    `json:"ilvl"`
	Corrupted bool   `json:"corrupted"`

	Sockets []MarketSocket `json:"sockets"`

	ImplicitMods  []string `json:"implicitMods"`
	ExplicitMods  []string `json:"explicitMods"`
	CraftedMods   []string `json:"craftedMods"`
	EnchantMods   []string `json:"enchantMods"`
	FracturedMods []string `json:"fracturedMods"`
	CrucibleMods  []string `json:"crucibleMods"`
	ScourgeMods   []string `json:"scourgeMods"`

	Properties []MarketProperty `json:"properties"`
}

type MarketSocket struct {
	Group  int    `json:"group"`
	Colour string `json:"sColour"`
}

type MarketProperty struct {
	Name   string  `json:"name"`
	Values [][]any `json:"values"`
}

// frame type values used by the trade API
const (
	frameNormal = 0
	frameMagic  = 1
	frameRare   = 2
	frameUnique = 3
)

// NormalizeMarket converts a trade API item into the canonical shape.
func (n *Normalizer) NormalizeMarket(rec MarketItem) (*domain.Item, error) {
	base := rec.BaseType
	if base == "" {
		base = rec.TypeLine
	}
	if rec.FrameType == nil && base == "" {
		return nil, &MissingRequiredFieldError{Source: SourceMarket}
	}

	rarity := domain.RarityNormal
	if rec.FrameType != nil {
		switch *rec.FrameType {
		case frameMagic:
			rarity = domain.RarityMagic
		case frameRare:
			rarity = domain.RarityRare
		case frameUnique:
			rarity = domain.RarityUnique
		case frameNormal:
			rarity = domain.RarityNormal
		default:
			// Gems, currency and other frames have no equipment rarity.
			n.logger.Debug().Int("frame_type", *rec.FrameType).Msg("unmapped frame type, defaulting to normal")
		}
	}

	it := &domain.Item{
		Name:      rec.Name,
		BaseType:  base,
		Rarity:    rarity,
		ItemLevel: rec.Ilvl,
		Sockets:   socketText(rec.Sockets),
		Corrupted: rec.Corrupted,
	}

	it.Modifiers = append(it.Modifiers, extractAll(rec.ImplicitMods, domain.KindImplicit)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.ExplicitMods, domain.KindExplicit)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.CraftedMods, domain.KindCrafted)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.EnchantMods, domain.KindEnchant)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.FracturedMods, domain.KindFractured)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.CrucibleMods, domain.KindCrucible)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.ScourgeMods, domain.KindScourge)...)

	if len(rec.Properties) > 0 {
		it.Properties = make(map[string]string, len(rec.Properties))
		for _, p := range rec.Properties {
			if p.Name == "" {
				continue
			}
			it.Properties[p.Name] = firstPropertyValue(p)
		}
	}

	return it, nil
}

// firstPropertyValue pulls the display string out of the trade API's
// nested [[value, displayMode], ...] property encoding.
func firstPropertyValue(p MarketProperty) string {
	if len(p.Values) == 0 || len(p.Values[0]) == 0 {
		return ""
	}
	switch v := p.Values[0][0].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return ""
	}
}

// socketText flattens the API's socket groups into the textual encoding
// used everywhere else: links joined by '-', groups joined by spaces
// ("B-B-G R").
func socketText(sockets []MarketSocket) string {
	if len(sockets) == 0 {
		return ""
	}
	var b strings.Builder
	lastGroup := -1
	for _, s := range sockets {
		if b.Len() > 0 {
			if s.Group == lastGroup {
				b.WriteByte('-')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(s.Colour)
		lastGroup = s.Group
	}
	return b.String()
}
