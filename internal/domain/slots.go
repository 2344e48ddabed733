package domain

// Slot is a canonical equipment position, independent of any source's
// naming convention. Every source format resolves to this set through a
// fixed lookup table; identifiers outside the tables are dropped.
type Slot string

const (
	SlotWeapon     Slot = "weapon"
	SlotOffhand    Slot = "offhand"
	SlotHelmet     Slot = "helmet"
	SlotBodyArmour Slot = "body_armour"
	SlotGloves     Slot = "gloves"
	SlotBoots      Slot = "boots"
	SlotBelt       Slot = "belt"
	SlotAmulet     Slot = "amulet"
	SlotRing1      Slot = "ring1"
	SlotRing2      Slot = "ring2"
)

// CanonicalSlots lists every slot in display order.
var CanonicalSlots = []Slot{
	SlotWeapon,
	SlotOffhand,
	SlotHelmet,
	SlotBodyArmour,
	SlotGloves,
	SlotBoots,
	SlotBelt,
	SlotAmulet,
	SlotRing1,
	SlotRing2,
}

// IsCanonicalSlot reports whether s is in the fixed slot set.
func IsCanonicalSlot(s Slot) bool {
	for _, c := range CanonicalSlots {
		if c == s {
			return true
		}
	}
	return false
}
