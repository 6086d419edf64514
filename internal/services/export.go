package services

import (
	"time"

	"github.com/google/uuid"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
)

// BambExport is the fixed external interchange schema: passport fields
// regrouped into the five BAMB blocks plus provenance metadata.
type BambExport struct {
	PassportID         uuid.UUID              `json:"passportId"`
	MaterialName       string                 `json:"materialName"`
	Category           string                 `json:"category"`
	PhysicalProperties BambPhysicalProperties `json:"physicalProperties"`
	Chemical           BambChemical           `json:"chemical"`
	ProcessIds         BambProcessIds         `json:"processIds"`
	Circularity        BambCircularity        `json:"circularity"`
	Lca                BambLca                `json:"lca"`
	Standard           string                 `json:"standard"`
	ExportedAt         string                 `json:"exportedAt"`
}

type BambPhysicalProperties struct {
	Density          *string `json:"density"`
	Volume           *string `json:"volume"`
	Weight           *string `json:"weight"`
	StrengthClass    *string `json:"strengthClass"`
	ServiceLife      *int    `json:"serviceLife"`
	ContentReference *string `json:"contentReference"`
}

type BambChemical struct {
	Constituents []types.Constituent `json:"constituents"`
	SvhcFlag     bool                `json:"svhcFlag"`
	VocClass     *string             `json:"vocClass"`
}

type BambProcessIds struct {
	Gtin          *string `json:"gtin"`
	Manufacturer  *string `json:"manufacturer"`
	BomObjectGuid *string `json:"bomObjectGuid"`
}

type BambCircularity struct {
	DisassemblyRating       *string `json:"disassemblyRating"`
	RecyclabilityPercentage *string `json:"recyclabilityPercentage"`
}

type BambLca struct {
	GwpA1A3         *string `json:"gwpA1A3"`
	StageDReduction *string `json:"stageDReduction"`
	NetGwp          *string `json:"netGwp"`
}

const bambStandard = "ISO 14040/44, ISO 20887, ISO 12006-3, ISO 23387"

func BuildBambExport(p *types.MaterialPassport) *BambExport {
	return &BambExport{
		PassportID:   p.ID,
		MaterialName: p.Name,
		Category:     p.Category,
		PhysicalProperties: BambPhysicalProperties{
			Density:          p.Density,
			Volume:           p.Volume,
			Weight:           p.Weight,
			StrengthClass:    p.StrengthClass,
			ServiceLife:      p.ServiceLife,
			ContentReference: p.ContentReference,
		},
		Chemical: BambChemical{
			Constituents: p.DecodeConstituents(),
			SvhcFlag:     p.SvhcFlag,
			VocClass:     p.VocClass,
		},
		ProcessIds: BambProcessIds{
			Gtin:          p.Gtin,
			Manufacturer:  p.Manufacturer,
			BomObjectGuid: p.BomObjectGuid,
		},
		Circularity: BambCircularity{
			DisassemblyRating:       p.DisassemblyRating,
			RecyclabilityPercentage: p.RecyclabilityPercentage,
		},
		Lca: BambLca{
			GwpA1A3:         p.GwpTotal,
			StageDReduction: p.StageDReduction,
			NetGwp:          p.NetGwp,
		},
		Standard:   bambStandard,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
