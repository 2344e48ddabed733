package item

import (
	"strconv"
	"strings"

	"exile-tracker/internal/domain"
)

// NormalizeItemText parses the desktop tool's line-based item export:
//
//	Rarity: UNIQUE
//	Foulborn Matua Tupuna
//	Tarnished Spirit Shield
//	Energy Shield: 33
//	Implicits: 1
//	+10% to all Elemental Resistances
//	+72 to maximum Life
//
// Unique and rare items carry a name line before the base type; normal
// and magic items start at the base type. Lines with no "key: value"
// shape are modifier text; the "Implicits: N" marker switches the next N
// of them to implicit kind.
func (n *Normalizer) NormalizeItemText(text string) (*domain.Item, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return nil, &MissingRequiredFieldError{Source: SourcePoB}
	}

	it := &domain.Item{}

	var rawRarity string
	if rest, ok := strings.CutPrefix(lines[0], "Rarity:"); ok {
		rawRarity = strings.TrimSpace(rest)
		it.Rarity = rarityFromString(rawRarity)
		lines = lines[1:]
	}

	switch strings.ToUpper(rawRarity) {
	case "UNIQUE", "RARE", "RELIC":
		if len(lines) >= 2 {
			it.Name = lines[0]
			it.BaseType = lines[1]
			lines = lines[2:]
		}
	default:
		if len(lines) > 0 {
			it.BaseType = lines[0]
			lines = lines[1:]
		}
	}

	if rawRarity == "" && it.BaseType == "" {
		return nil, &MissingRequiredFieldError{Source: SourcePoB}
	}

	implicitsLeft := 0
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(line, "Implicits:"); ok {
			if v, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
				implicitsLeft = v
			}
			continue
		}
		if line == "Corrupted" {
			it.Corrupted = true
			continue
		}

		if key, value, ok := strings.Cut(line, ": "); ok {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			switch key {
			case "Sockets":
				it.Sockets = value
			case "Item Level":
				if lvl, err := strconv.Atoi(value); err == nil {
					it.ItemLevel = lvl
				}
			case "Unique ID":
				setProperty(it, "unique_id", value)
			default:
				// Everything else ("Quality", "Energy Shield", "LevelReq",
				// unknown keys) rides along in the property bag.
				setProperty(it, key, value)
			}
			continue
		}

		// Lines without a key are modifier text.
		kind := domain.KindExplicit
		if implicitsLeft > 0 {
			kind = domain.KindImplicit
			implicitsLeft--
		}
		it.Modifiers = append(it.Modifiers, extractAll([]string{line}, kind)...)
	}

	return it, nil
}

func setProperty(it *domain.Item, key, value string) {
	if it.Properties == nil {
		it.Properties = make(map[string]string)
	}
	it.Properties[key] = value
}
