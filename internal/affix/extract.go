// Package affix turns free-text modifier lines into structured values.
//
// The extractor is total: text it cannot interpret yields a sentinel
// single-value modifier instead of an error, because unparseable affix
// text is common in the wild and must never block an import.
package affix

import (
	"regexp"
	"strconv"
	"strings"

	"exile-tracker/internal/domain"
)

// numberPattern matches maximal signed, optionally decimal numeric tokens.
// Note that parenthesized roll ranges like "+(15-20)%" deliberately scan as
// "15" and "-20": that matches the behavior observed in production and no
// sampled affix data has hit the pattern, so it stays.
var numberPattern = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?`)

// Extract scans text left to right for numeric tokens and builds a
// Modifier of the given kind. Zero tokens means a boolean-presence affix
// ("Cannot be Frozen") and yields the single sentinel value 1.
//
// Bracketed metadata markup ([Key|Display]) stays in Text untouched; only
// the numeric scan looks through it.
func Extract(text string, kind domain.ModifierKind) domain.Modifier {
	locs := numberPattern.FindAllStringIndex(text, -1)

	if len(locs) == 0 {
		return domain.Modifier{
			Text:   text,
			Kind:   kind,
			Values: []float64{1},
		}
	}

	values := make([]float64, 0, len(locs))
	for _, loc := range locs {
		v, err := strconv.ParseFloat(text[loc[0]:loc[1]], 64)
		if err != nil {
			// The pattern guarantees a parseable token; treat the
			// impossible case like any other uninterpretable text.
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		values = []float64{1}
	}

	return domain.Modifier{
		Text:    text,
		Kind:    kind,
		Values:  values,
		IsRange: isRange(text, locs, values),
	}
}

// isRange reports whether the modifier carries a low/high pair, i.e.
// exactly two numbers joined by the literal word "to" ("Adds 4 to 6
// Physical Damage"). The pair is still stored as two independent values
// in appearance order, not a range type.
func isRange(text string, locs [][]int, values []float64) bool {
	if len(values) != 2 || len(locs) != 2 {
		return false
	}
	between := strings.TrimSpace(text[locs[0][1]:locs[1][0]])
	return strings.EqualFold(between, "to")
}
