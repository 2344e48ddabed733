package item

import "exile-tracker/internal/domain"

// LadderItem is the community ladder export's item shape: rarity as a
// display string, modifiers either as flat per-kind arrays or as tagged
// {text, kind} records (newer exports use the latter).
type LadderItem struct {
	Name      string `json:"name"`
	BaseType  string `json:"baseType"`
	Rarity    string `json:"rarity"`
	ItemLevel int    `json:"itemLevel"`
	Corrupted bool   `json:"corrupted"`
	Sockets   string `json:"sockets"`

	ImplicitMods []string `json:"implicitMods"`
	ExplicitMods []string `json:"explicitMods"`
	CraftedMods  []string `json:"craftedMods"`
	EnchantMods  []string `json:"enchantMods"`

	// Mods carries tagged modifier records from newer export versions;
	// kinds we don't know collapse to "other".
	Mods []LadderMod `json:"mods"`

	Extra map[string]string `json:"extra"`
}

type LadderMod struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

// NormalizeLadder converts a ladder export item into the canonical shape.
func (n *Normalizer) NormalizeLadder(rec LadderItem) (*domain.Item, error) {
	if rec.Rarity == "" && rec.BaseType == "" {
		return nil, &MissingRequiredFieldError{Source: SourceLadder}
	}

	it := &domain.Item{
		Name:      rec.Name,
		BaseType:  rec.BaseType,
		Rarity:    rarityFromString(rec.Rarity),
		ItemLevel: rec.ItemLevel,
		Sockets:   rec.Sockets,
		Corrupted: rec.Corrupted,
	}

	it.Modifiers = append(it.Modifiers, extractAll(rec.ImplicitMods, domain.KindImplicit)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.ExplicitMods, domain.KindExplicit)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.CraftedMods, domain.KindCrafted)...)
	it.Modifiers = append(it.Modifiers, extractAll(rec.EnchantMods, domain.KindEnchant)...)

	for _, m := range rec.Mods {
		if m.Text == "" {
			continue
		}
		it.Modifiers = append(it.Modifiers, extractAll([]string{m.Text}, kindFromString(m.Kind))...)
	}

	if len(rec.Extra) > 0 {
		it.Properties = make(map[string]string, len(rec.Extra))
		for k, v := range rec.Extra {
			it.Properties[k] = v
		}
	}

	return it, nil
}
