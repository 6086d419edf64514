package passport

import (
	"math"
	"strings"
)

// The fixed required-field set spanning all five blocks. One structural
// requirement (a usable constituents list) counts as an extra slot.
const requiredScalarFields = 16

type Completion struct {
	Ratio      float64 `json:"ratio"`
	Percentage int     `json:"percentage"`
}

// ComputeCompletion counts the satisfied required fields of p. A scalar field
// is satisfied when it is set and non-empty; the constituents requirement is
// satisfied by at least one entry with a material name and a positive
// percentage. The percentage is rounded for display.
func ComputeCompletion(p *MaterialPassport) Completion {
	satisfied := 0
	if strings.TrimSpace(p.Name) != "" {
		satisfied++
	}
	if strings.TrimSpace(p.Category) != "" {
		satisfied++
	}
	for _, f := range []*string{
		p.Density,
		p.Volume,
		p.StrengthClass,
		p.ContentReference,
		p.VocClass,
		p.Gtin,
		p.Manufacturer,
		p.DisassemblyRating,
		p.RecyclabilityPercentage,
		p.GwpA1,
		p.GwpA2,
		p.GwpA3,
		p.StageDReduction,
	} {
		if present(f) {
			satisfied++
		}
	}
	if p.ServiceLife != nil {
		satisfied++
	}
	if hasValidConstituent(p) {
		satisfied++
	}

	ratio := float64(satisfied) / float64(requiredScalarFields+1)
	return Completion{
		Ratio:      ratio,
		Percentage: int(math.Round(ratio * 100)),
	}
}

// DeriveStatus maps completion onto the record status. Published passports
// stay published; everything else is complete at 100% and draft below.
func DeriveStatus(p *MaterialPassport, c Completion) string {
	if p.Status == StatusPublished {
		return StatusPublished
	}
	if c.Percentage >= 100 {
		return StatusComplete
	}
	return StatusDraft
}

func hasValidConstituent(p *MaterialPassport) bool {
	for _, c := range p.DecodeConstituents() {
		if strings.TrimSpace(c.Material) != "" && c.Percentage > 0 {
			return true
		}
	}
	return false
}
