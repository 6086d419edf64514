package passport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusDraft     = "draft"
	StatusComplete  = "complete"
	StatusPublished = "published"
)

// Disassembly ratings, ordered best to worst.
const (
	DisassemblyExcellent = "excellent"
	DisassemblyGood      = "good"
	DisassemblyFair      = "fair"
	DisassemblyPoor      = "poor"
)

// MaterialPassport is the central record. Decimal-valued columns are kept as
// string pointers: values arrive and leave the API as decimal strings, and
// derivation goes through exact decimal arithmetic, never float64.
type MaterialPassport struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name     string    `gorm:"not null;column:name" json:"name"`
	Category string    `gorm:"not null;column:category" json:"category"`
	Status   string    `gorm:"not null;default:draft;column:status" json:"status"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`

	// Physical properties
	Density          *string `gorm:"type:numeric(10,3);column:density" json:"density"`
	Volume           *string `gorm:"type:numeric(12,6);column:volume" json:"volume"`
	Weight           *string `gorm:"type:numeric(12,3);column:weight" json:"weight"`
	StrengthClass    *string `gorm:"column:strength_class" json:"strength_class"`
	ServiceLife      *int    `gorm:"column:service_life" json:"service_life"`
	FireResistance   *string `gorm:"column:fire_resistance" json:"fire_resistance"`
	ContentReference *string `gorm:"column:content_reference" json:"content_reference"`

	// Chemical / health
	Constituents    datatypes.JSON `gorm:"column:constituents" json:"constituents"`
	SvhcFlag        bool           `gorm:"default:false;column:svhc_flag" json:"svhc_flag"`
	ReachCompliance bool           `gorm:"default:false;column:reach_compliance" json:"reach_compliance"`
	VocClass        *string        `gorm:"column:voc_class" json:"voc_class"`

	// Process / identifiers
	Gtin          *string `gorm:"column:gtin" json:"gtin"`
	Ean           *string `gorm:"column:ean" json:"ean"`
	Cas           *string `gorm:"column:cas" json:"cas"`
	Manufacturer  *string `gorm:"column:manufacturer" json:"manufacturer"`
	BomObjectGuid *string `gorm:"column:bom_object_guid" json:"bom_object_guid"`

	// Circularity
	DisassemblyRating       *string `gorm:"column:disassembly_rating" json:"disassembly_rating"`
	RecyclabilityPercentage *string `gorm:"type:numeric(5,2);column:recyclability_percentage" json:"recyclability_percentage"`

	// LCA (EN 15804 stages)
	GwpA1           *string `gorm:"type:numeric(10,4);column:gwp_a1" json:"gwp_a1"`
	GwpA2           *string `gorm:"type:numeric(10,4);column:gwp_a2" json:"gwp_a2"`
	GwpA3           *string `gorm:"type:numeric(10,4);column:gwp_a3" json:"gwp_a3"`
	GwpTotal        *string `gorm:"type:numeric(10,4);column:gwp_total" json:"gwp_total"`
	StageDReduction *string `gorm:"type:numeric(10,4);column:stage_d_reduction" json:"stage_d_reduction"`
	NetGwp          *string `gorm:"type:numeric(10,4);column:net_gwp" json:"net_gwp"`

	// Additional LCA impacts
	Odp                    *string `gorm:"type:numeric(15,10);column:odp" json:"odp"`
	AcidificationPotential *string `gorm:"type:numeric(10,6);column:acidification_potential" json:"acidification_potential"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now();index" json:"updated_at"`
}

func (MaterialPassport) TableName() string { return "material_passport" }

// Constituent is one entry of the chemical-composition list. Percentages are
// weight percent; the list is not required to sum to 100.
type Constituent struct {
	Material   string  `json:"material"`
	Percentage float64 `json:"percentage"`
}

func (p *MaterialPassport) DecodeConstituents() []Constituent {
	if len(p.Constituents) == 0 {
		return nil
	}
	var out []Constituent
	if err := json.Unmarshal(p.Constituents, &out); err != nil {
		return nil
	}
	return out
}

func EncodeConstituents(list []Constituent) (datatypes.JSON, error) {
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
