package ranking

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"exile-tracker/internal/affix"
	"exile-tracker/internal/domain"
)

func itemWithMods(lines ...string) *domain.Item {
	it := &domain.Item{BaseType: "Test Base", Rarity: domain.RarityRare}
	for _, line := range lines {
		it.Modifiers = append(it.Modifiers, affix.Extract(line, domain.KindExplicit))
	}
	return it
}

func listing(price float64, lines ...string) domain.Listing {
	return domain.Listing{Item: itemWithMods(lines...), Price: decimal.NewFromFloat(price)}
}

func TestRank_Scenario(t *testing.T) {
	current := itemWithMods("+60 to maximum Life", "+20% to Fire Resistance")
	candidate := listing(25, "+70 to maximum Life", "+40% to Fire Resistance")

	ranked := Rank(current, []domain.Listing{candidate}, Options{})
	if len(ranked) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(ranked))
	}
	c := ranked[0]

	if c.Improvements["life"] != 10 || c.Improvements["fire_res"] != 20 {
		t.Errorf("improvements mismatch: %#v", c.Improvements)
	}
	if len(c.Improvements) != 2 {
		t.Errorf("expected exactly 2 improvements, got %#v", c.Improvements)
	}
	if c.ImprovementScore <= 0 {
		t.Errorf("expected positive improvement score, got %v", c.ImprovementScore)
	}

	// life 10 * 1.0 + fire_res 20 * 0.6 = 22
	if math.Abs(c.ImprovementScore-22) > 1e-9 {
		t.Errorf("expected score 22 under default weights, got %v", c.ImprovementScore)
	}
	if math.Abs(c.ValueScore-c.ImprovementScore/25) > 1e-9 {
		t.Errorf("value score must be score/price: %v", c.ValueScore)
	}
}

func TestRank_FreeListingRanksFirstByValue(t *testing.T) {
	current := itemWithMods("+60 to maximum Life")
	free := listing(0, "+61 to maximum Life")
	big := listing(5, "+100 to maximum Life")

	ranked := Rank(current, []domain.Listing{big, free}, Options{SortBy: SortByValue})
	if !math.IsInf(ranked[0].ValueScore, 1) {
		t.Fatalf("free listing must rank first with +Inf value score, got %v", ranked[0].ValueScore)
	}
	if ranked[0].Listing.Item.ModifierTexts()[0] != "+61 to maximum Life" {
		t.Fatalf("free listing should be first")
	}
}

func TestRank_TiesBreakByAscendingPrice(t *testing.T) {
	current := itemWithMods("+60 to maximum Life")
	cheap := listing(3, "+80 to maximum Life")
	dear := listing(9, "+80 to maximum Life")

	ranked := Rank(current, []domain.Listing{dear, cheap}, Options{SortBy: SortByImprovement})
	if !ranked[0].Listing.Price.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("equal scores must order by ascending price, got %s first", ranked[0].Listing.Price)
	}
}

func TestRank_StableUnderReorderOnFullTie(t *testing.T) {
	current := itemWithMods("+60 to maximum Life")
	a := listing(5, "+80 to maximum Life")
	a.ID = "a"
	b := listing(5, "+80 to maximum Life")
	b.ID = "b"

	first := Rank(current, []domain.Listing{a, b}, Options{})
	second := Rank(current, []domain.Listing{a, b}, Options{})
	if first[0].Listing.ID != second[0].Listing.ID {
		t.Fatalf("identical inputs must produce identical ordering")
	}
	// Full ties keep input order.
	if first[0].Listing.ID != "a" || first[1].Listing.ID != "b" {
		t.Fatalf("full tie should keep input order, got %s then %s", first[0].Listing.ID, first[1].Listing.ID)
	}
}

func TestRank_WeightOverridesBackedByDefaults(t *testing.T) {
	current := itemWithMods("+60 to maximum Life", "+20% to Fire Resistance")
	candidate := listing(1, "+70 to maximum Life", "+40% to Fire Resistance")

	ranked := Rank(current, []domain.Listing{candidate}, Options{
		Weights: map[string]float64{"life": 0}, // fire_res keeps its default
	})
	// 10*0 + 20*0.6 = 12
	if math.Abs(ranked[0].ImprovementScore-12) > 1e-9 {
		t.Errorf("expected score 12, got %v", ranked[0].ImprovementScore)
	}
}

func TestRank_DowngradesScoreNegative(t *testing.T) {
	current := itemWithMods("+100 to maximum Life")
	worse := listing(10, "+40 to maximum Life")

	ranked := Rank(current, []domain.Listing{worse}, Options{})
	if ranked[0].ImprovementScore >= 0 {
		t.Errorf("losing 60 life must score negative, got %v", ranked[0].ImprovementScore)
	}
	if ranked[0].Improvements["life"] != -60 {
		t.Errorf("expected life delta -60, got %#v", ranked[0].Improvements)
	}
}

func TestItemStats_FoldsUmbrellaStats(t *testing.T) {
	it := itemWithMods(
		"+30% to Fire Resistance",
		"+15% to all Elemental Resistances",
		"+10 to all Attributes",
	)
	stats := ItemStats(it)
	if stats["fire_res"] != 45 {
		t.Errorf("fire_res should include all_res bonus: %v", stats["fire_res"])
	}
	if stats["cold_res"] != 15 || stats["lightning_res"] != 15 {
		t.Errorf("all_res should create missing resist keys: %#v", stats)
	}
	if stats["strength"] != 10 || stats["dexterity"] != 10 || stats["intelligence"] != 10 {
		t.Errorf("all_attributes should fold into each attribute: %#v", stats)
	}
	if _, ok := stats["all_res"]; ok {
		t.Errorf("umbrella key must be removed after folding")
	}
}

func TestItemStats_SumsRepeatedStats(t *testing.T) {
	it := itemWithMods("+40 to maximum Life", "+32 to maximum Life")
	if got := ItemStats(it)["life"]; got != 72 {
		t.Errorf("expected summed life 72, got %v", got)
	}
}

func TestItemStats_NilItem(t *testing.T) {
	if got := ItemStats(nil); len(got) != 0 {
		t.Errorf("nil item should have no stats: %#v", got)
	}
}

func TestAnalyzeBuild_Archetypes(t *testing.T) {
	cases := []struct {
		name string
		life int
		es   int
		want Archetype
	}{
		{"life build", 5200, 100, ArchetypeLife},
		{"es build", 300, 6000, ArchetypeES},
		{"fresh character", 80, 0, ArchetypeUnknown},
	}
	for _, c := range cases {
		build := &domain.Build{Life: c.life, EnergyShield: c.es, Level: 90}
		got := AnalyzeBuild(build, zerolog.Nop())
		if got.Archetype != c.want {
			t.Errorf("%s: expected %s, got %s", c.name, c.want, got.Archetype)
		}
	}
}

func TestAnalyzeBuild_LevelingPrioritizesResists(t *testing.T) {
	low := AnalyzeBuild(&domain.Build{Life: 900, Level: 40}, zerolog.Nop())
	high := AnalyzeBuild(&domain.Build{Life: 5200, Level: 95}, zerolog.Nop())
	if low.SuggestedWeights["fire_res"] <= high.SuggestedWeights["fire_res"] {
		t.Errorf("leveling builds must weight resists higher: %v vs %v",
			low.SuggestedWeights["fire_res"], high.SuggestedWeights["fire_res"])
	}
}

func TestLoadWeightsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte("life: 2.5\nfire_res: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	weights, err := LoadWeightsFile(path)
	if err != nil {
		t.Fatalf("load weights: %v", err)
	}
	if weights["life"] != 2.5 || weights["fire_res"] != 0 {
		t.Errorf("unexpected weights: %#v", weights)
	}

	if _, err := LoadWeightsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing file should error")
	}
}

func TestStatDefinitions_CoversDefaultTable(t *testing.T) {
	defs := StatDefinitions()
	if len(defs) != len(DefaultWeights) {
		t.Fatalf("expected %d definitions, got %d", len(DefaultWeights), len(defs))
	}
	for _, d := range defs {
		if d.DisplayName == "" || d.Category == "" {
			t.Errorf("definition %q missing display metadata: %+v", d.Key, d)
		}
	}
}
