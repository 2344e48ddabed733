// Package export renders ranking results as downloadable spreadsheets.
package export

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/service"
)

// WriteRankingXLSX writes one sheet per ranked slot. Candidates appear
// in their ranked order, one row each.
func WriteRankingXLSX(w io.Writer, sessionID string, results []service.SlotResult) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := "Sheet1"
	for i, result := range results {
		sheet := sheetName(result.Slot)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("failed to name sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to add sheet: %w", err)
			}
		}
		writeSlotSheet(f, sheet, result)
	}

	if len(results) == 0 {
		f.SetCellValue(defaultSheet, "A1", "No results")
	}
	f.SetDocProps(&excelize.DocProps{Title: "Upgrade ranking " + sessionID})

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSlotSheet(f *excelize.File, sheet string, result service.SlotResult) {
	headers := []string{"Rank", "Item", "Base Type", "Price", "Currency", "Improvement Score", "Value Score", "Improvements"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, c := range result.Candidates {
		values := []any{
			row + 1,
			itemLabel(c.Listing.Item),
			baseType(c.Listing.Item),
			c.Listing.Price.InexactFloat64(),
			c.Listing.Currency,
			c.ImprovementScore,
			valueScoreCell(c.ValueScore),
			improvementsLabel(c.Improvements),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
}

func sheetName(slot domain.Slot) string {
	// Sheet names cap at 31 chars and slots fit comfortably.
	words := strings.Split(string(slot), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func itemLabel(it *domain.Item) string {
	if it == nil {
		return ""
	}
	if it.Name != "" {
		return it.Name
	}
	return it.BaseType
}

func baseType(it *domain.Item) string {
	if it == nil {
		return ""
	}
	return it.BaseType
}

// valueScoreCell keeps free listings readable: xlsx has no infinity.
func valueScoreCell(score float64) any {
	if math.IsInf(score, 1) {
		return "free"
	}
	return score
}

func improvementsLabel(improvements map[string]float64) string {
	keys := make([]string, 0, len(improvements))
	for k := range improvements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %+g", k, improvements[k]))
	}
	return strings.Join(parts, ", ")
}
