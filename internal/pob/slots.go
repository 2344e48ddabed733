package pob

import (
	"strings"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/item"
)

// Slot resolution is a fixed lookup per source format, never inferred.
// The desktop tool and the ladder export name the same physical slots
// differently; both tables land on the canonical set.

var desktopSlotTable = map[string]domain.Slot{
	"Weapon 1":    domain.SlotWeapon,
	"Weapon 2":    domain.SlotOffhand,
	"Helmet":      domain.SlotHelmet,
	"Body Armour": domain.SlotBodyArmour,
	"Gloves":      domain.SlotGloves,
	"Boots":       domain.SlotBoots,
	"Belt":        domain.SlotBelt,
	"Amulet":      domain.SlotAmulet,
	"Ring 1":      domain.SlotRing1,
	"Ring 2":      domain.SlotRing2,
}

var ladderSlotTable = map[string]domain.Slot{
	"Weapon":     domain.SlotWeapon,
	"Offhand":    domain.SlotOffhand,
	"Weapon2":    domain.SlotOffhand,
	"Helm":       domain.SlotHelmet,
	"BodyArmour": domain.SlotBodyArmour,
	"Gloves":     domain.SlotGloves,
	"Boots":      domain.SlotBoots,
	"Belt":       domain.SlotBelt,
	"Amulet":     domain.SlotAmulet,
	"Ring":       domain.SlotRing1,
	"Ring2":      domain.SlotRing2,
}

// ResolveSlot maps a source format's slot identifier onto the canonical
// slot set. ok is false for identifiers outside the table; callers drop
// those with a warning rather than failing.
func ResolveSlot(source item.SourceFormat, identifier string) (domain.Slot, bool) {
	switch source {
	case item.SourcePoB:
		s, ok := desktopSlotTable[identifier]
		return s, ok
	case item.SourceLadder, item.SourceMarket:
		s, ok := ladderSlotTable[identifier]
		return s, ok
	default:
		return "", false
	}
}

// isAuxiliarySlot reports slots the importer skips silently: weapon-swap
// sets, socketed jewels and flasks are not equipment positions we rank.
func isAuxiliarySlot(name string) bool {
	return strings.Contains(name, "Swap") ||
		strings.Contains(name, "Abyssal") ||
		strings.Contains(name, "Flask") ||
		strings.Contains(name, "Socket")
}
