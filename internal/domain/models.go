package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

type Game string

const (
	GamePoE1 Game = "poe1"
	GamePoE2 Game = "poe2"
)

type Rarity string

const (
	RarityNormal Rarity = "normal"
	RarityMagic  Rarity = "magic"
	RarityRare   Rarity = "rare"
	RarityUnique Rarity = "unique"
)

// ModifierKind tags how a modifier line was acquired.
type ModifierKind string

const (
	KindImplicit  ModifierKind = "implicit"
	KindExplicit  ModifierKind = "explicit"
	KindCrafted   ModifierKind = "crafted"
	KindEnchant   ModifierKind = "enchant"
	KindFractured ModifierKind = "fractured"
	KindCrucible  ModifierKind = "crucible"
	KindScourge   ModifierKind = "scourge"

	// KindOther is the catch-all for kind strings a source invents that we
	// don't recognize. Mapped, never rejected.
	KindOther ModifierKind = "other"
)

// Modifier is one stat line on an item. Immutable once constructed.
// Text is preserved verbatim, including any [Key|Display] markup the
// source embeds; only the numeric scan ignores the markup.
type Modifier struct {
	Text    string       `json:"text"`
	Kind    ModifierKind `json:"kind"`
	Values  []float64    `json:"values"`
	IsRange bool         `json:"is_range"`
}

// Item is one piece of equipment, built once by the normalizer and never
// mutated. Modifiers keeps source order within each kind.
type Item struct {
	Name      string     `json:"name,omitempty"` // empty for unnamed commons
	BaseType  string     `json:"base_type"`
	Rarity    Rarity     `json:"rarity"`
	ItemLevel int        `json:"item_level,omitempty"`
	Sockets   string     `json:"sockets,omitempty"`
	Corrupted bool       `json:"corrupted,omitempty"`
	Modifiers []Modifier `json:"modifiers"`

	// Properties is the bag for source-specific metadata that has no
	// first-class field (quality, requirements, influence and the like).
	Properties map[string]string `json:"properties,omitempty"`
}

// ModifiersOf returns the item's modifiers of one kind, in source order.
func (i *Item) ModifiersOf(kind ModifierKind) []Modifier {
	var out []Modifier
	for _, m := range i.Modifiers {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ModifierTexts returns every modifier line on the item, in order.
func (i *Item) ModifierTexts() []string {
	out := make([]string, 0, len(i.Modifiers))
	for _, m := range i.Modifiers {
		out = append(out, m.Text)
	}
	return out
}

// Resistances are the four resistance totals the engine reports.
type Resistances struct {
	Fire      float64 `json:"fire"`
	Cold      float64 `json:"cold"`
	Lightning float64 `json:"lightning"`
	Chaos     float64 `json:"chaos"`
}

// DerivedStats is the fixed record the calculation engine produces.
// A zero value means "engine unavailable or failed"; callers fall back to
// the build's raw totals.
type DerivedStats struct {
	Life         float64     `json:"life"`
	EnergyShield float64     `json:"energy_shield"`
	Evasion      float64     `json:"evasion"`
	Armour       float64     `json:"armour"`
	DPS          float64     `json:"dps"`
	EffectiveHP  float64     `json:"effective_hp"`
	Resistances  Resistances `json:"resistances"`
}

// IsZero reports whether the engine produced nothing usable.
func (d DerivedStats) IsZero() bool {
	return d == DerivedStats{}
}

// Build is one parsed character. SessionID is the only handle a caller
// keeps; the build itself lives for a single analysis session.
type Build struct {
	SessionID      string `json:"session_id"`
	Game           Game   `json:"game"`
	Name           string `json:"name"`
	CharacterClass string `json:"character_class"`
	Ascendancy     string `json:"ascendancy,omitempty"`
	Level          int    `json:"level"`
	League         string `json:"league,omitempty"`

	// Raw totals as reported by the source document, pre-calculation.
	Life         int `json:"life,omitempty"`
	EnergyShield int `json:"energy_shield,omitempty"`
	Mana         int `json:"mana,omitempty"`
	Armour       int `json:"armour,omitempty"`
	Evasion      int `json:"evasion,omitempty"`

	// Items maps canonical slot names to equipment. Absent slot = empty.
	Items map[Slot]*Item `json:"items"`

	// Artifact is the build's native serialized form, kept so the
	// calculation engine can be fed the exact document we imported.
	Artifact string `json:"-"`

	// DerivedStats is filled in at most once, by one engine invocation.
	DerivedStats *DerivedStats `json:"derived_stats,omitempty"`
}

// Listing is a market candidate: an item plus its asking price.
type Listing struct {
	ID       string          `json:"id,omitempty"`
	Item     *Item           `json:"item"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
}

// PriceFloat returns the listing price as a float, for score math.
func (l Listing) PriceFloat() float64 {
	f, _ := l.Price.Float64()
	return f
}

// UpgradeCandidate is one ranked listing. Ephemeral, never persisted.
type UpgradeCandidate struct {
	Listing          Listing            `json:"listing"`
	Improvements     map[string]float64 `json:"improvements"`
	ImprovementScore float64            `json:"improvement_score"`

	// ValueScore is ImprovementScore / price; +Inf when the listing is
	// free, so free upgrades rank first under value ordering.
	ValueScore float64 `json:"value_score"`
}

// FreeValueScore is the value score assigned to zero-priced listings.
var FreeValueScore = math.Inf(1)

// WeightPreset is a named, persisted stat-weight configuration.
type WeightPreset struct {
	ID      int64              `json:"id"`
	Name    string             `json:"name"`
	Game    Game               `json:"game"`
	Weights map[string]float64 `json:"weights"`
}

// StatDefinition describes one canonical stat key for display.
type StatDefinition struct {
	Key           string  `json:"key"`
	DisplayName   string  `json:"display_name"`
	Category      string  `json:"category"`
	DefaultWeight float64 `json:"default_weight"`
}
