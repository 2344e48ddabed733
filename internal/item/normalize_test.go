package item

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(zerolog.Nop())
}

func intPtr(v int) *int { return &v }

func TestNormalizeMarket(t *testing.T) {
	n := testNormalizer()

	it, err := n.NormalizeMarket(MarketItem{
		Name:      "Doom Strike",
		TypeLine:  "Titan Greaves",
		BaseType:  "Titan Greaves",
		FrameType: intPtr(frameRare),
		Ilvl:      84,
		Corrupted: true,
		Sockets: []MarketSocket{
			{Group: 0, Colour: "R"},
			{Group: 0, Colour: "R"},
			{Group: 1, Colour: "B"},
		},
		ImplicitMods: []string{"+12% to Fire Resistance"},
		ExplicitMods: []string{"+72 to maximum Life", "25% increased Movement Speed"},
		CraftedMods:  []string{"+18% to Cold Resistance"},
		Properties: []MarketProperty{
			{Name: "Quality", Values: [][]any{{"+20%", float64(1)}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if it.Rarity != domain.RarityRare {
		t.Errorf("expected rare, got %s", it.Rarity)
	}
	if it.BaseType != "Titan Greaves" || it.Name != "Doom Strike" {
		t.Errorf("identity mismatch: %q / %q", it.Name, it.BaseType)
	}
	if it.Sockets != "R-R B" {
		t.Errorf("expected sockets %q, got %q", "R-R B", it.Sockets)
	}
	if !it.Corrupted || it.ItemLevel != 84 {
		t.Errorf("corrupted/ilvl not carried: %+v", it)
	}
	if got := len(it.ModifiersOf(domain.KindExplicit)); got != 2 {
		t.Errorf("expected 2 explicit mods, got %d", got)
	}
	if got := len(it.ModifiersOf(domain.KindCrafted)); got != 1 {
		t.Errorf("expected 1 crafted mod, got %d", got)
	}
	if it.Properties["Quality"] != "+20%" {
		t.Errorf("quality property lost: %#v", it.Properties)
	}
}

func TestNormalizeMarket_MissingEverything(t *testing.T) {
	n := testNormalizer()
	_, err := n.NormalizeMarket(MarketItem{Name: "nameless"})
	var missing *MissingRequiredFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
}

func TestNormalizeMarket_UnknownFrameDefaultsNormal(t *testing.T) {
	n := testNormalizer()
	it, err := n.NormalizeMarket(MarketItem{BaseType: "Divine Orb", FrameType: intPtr(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Rarity != domain.RarityNormal {
		t.Errorf("unknown frame should degrade to normal, got %s", it.Rarity)
	}
}

func TestNormalizeLadder_TaggedModsAndUnknownKind(t *testing.T) {
	n := testNormalizer()
	it, err := n.NormalizeLadder(LadderItem{
		Name:     "Doom Strike",
		BaseType: "Titan Greaves",
		Rarity:   "RARE",
		Mods: []LadderMod{
			{Text: "+72 to maximum Life", Kind: "explicit"},
			{Text: "Allocates Iron Grip", Kind: "veiled"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(it.ModifiersOf(domain.KindExplicit)); got != 1 {
		t.Errorf("expected 1 explicit mod, got %d", got)
	}
	other := it.ModifiersOf(domain.KindOther)
	if len(other) != 1 || other[0].Text != "Allocates Iron Grip" {
		t.Errorf("unknown kind should map to other: %#v", other)
	}
}

func TestNormalizeItemText(t *testing.T) {
	n := testNormalizer()
	it, err := n.NormalizeItemText(`Rarity: UNIQUE
Foulborn Matua Tupuna
Tarnished Spirit Shield
Energy Shield: 33
Sockets: B-B-B
Item Level: 60
Implicits: 1
+10% to all Elemental Resistances
+72 to maximum Life
Corrupted`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if it.Rarity != domain.RarityUnique || it.Name != "Foulborn Matua Tupuna" || it.BaseType != "Tarnished Spirit Shield" {
		t.Fatalf("identity mismatch: %+v", it)
	}
	if it.Sockets != "B-B-B" || it.ItemLevel != 60 || !it.Corrupted {
		t.Errorf("sockets/ilvl/corrupted mismatch: %+v", it)
	}
	imp := it.ModifiersOf(domain.KindImplicit)
	if len(imp) != 1 || imp[0].Text != "+10% to all Elemental Resistances" {
		t.Errorf("implicit counting broken: %#v", imp)
	}
	exp := it.ModifiersOf(domain.KindExplicit)
	if len(exp) != 1 || exp[0].Text != "+72 to maximum Life" {
		t.Errorf("explicit mods broken: %#v", exp)
	}
	if it.Properties["Energy Shield"] != "33" {
		t.Errorf("property bag missing Energy Shield: %#v", it.Properties)
	}
}

func TestNormalizeItemText_MagicHasNoNameLine(t *testing.T) {
	n := testNormalizer()
	it, err := n.NormalizeItemText(`Rarity: MAGIC
Sapphire Ring of the Walrus
+26% to Cold Resistance`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Name != "" || it.BaseType != "Sapphire Ring of the Walrus" {
		t.Errorf("magic item should be unnamed: %+v", it)
	}
}

func TestNormalizeItemText_Empty(t *testing.T) {
	n := testNormalizer()
	_, err := n.NormalizeItemText("   \n \n")
	var missing *MissingRequiredFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
}

// The same logical item arriving by any two source shapes must agree on
// base type, rarity and modifier texts; source-specific properties may
// differ.
func TestNormalize_RoundTripAcrossSources(t *testing.T) {
	n := testNormalizer()

	market, err := n.NormalizeMarket(MarketItem{
		Name:         "Doom Strike",
		BaseType:     "Titan Greaves",
		FrameType:    intPtr(frameRare),
		ImplicitMods: []string{"+12% to Fire Resistance"},
		ExplicitMods: []string{"+72 to maximum Life", "25% increased Movement Speed"},
		Properties:   []MarketProperty{{Name: "Quality", Values: [][]any{{"+20%", float64(1)}}}},
	})
	if err != nil {
		t.Fatalf("market: %v", err)
	}

	ladder, err := n.NormalizeLadder(LadderItem{
		Name:         "Doom Strike",
		BaseType:     "Titan Greaves",
		Rarity:       "Rare",
		ImplicitMods: []string{"+12% to Fire Resistance"},
		ExplicitMods: []string{"+72 to maximum Life", "25% increased Movement Speed"},
		Extra:        map[string]string{"league": "Settlers"},
	})
	if err != nil {
		t.Fatalf("ladder: %v", err)
	}

	pob, err := n.NormalizeItemText(`Rarity: RARE
Doom Strike
Titan Greaves
Implicits: 1
+12% to Fire Resistance
+72 to maximum Life
25% increased Movement Speed`)
	if err != nil {
		t.Fatalf("pob: %v", err)
	}

	items := map[string]*domain.Item{"market": market, "ladder": ladder, "pob": pob}
	for a, ia := range items {
		for b, ib := range items {
			if ia.BaseType != ib.BaseType || ia.Rarity != ib.Rarity {
				t.Errorf("%s vs %s: identity mismatch", a, b)
			}
			ta, tb := ia.ModifierTexts(), ib.ModifierTexts()
			if len(ta) != len(tb) {
				t.Fatalf("%s vs %s: mod count %d != %d", a, b, len(ta), len(tb))
			}
			for i := range ta {
				if ta[i] != tb[i] {
					t.Errorf("%s vs %s: mod[%d] %q != %q", a, b, i, ta[i], tb[i])
				}
			}
		}
	}
}

func TestNormalize_DispatchRejectsUnknownSource(t *testing.T) {
	n := testNormalizer()
	if _, err := n.Normalize([]byte("{}"), SourceFormat("csv")); err == nil {
		t.Fatalf("expected error for unknown source format")
	}
}
