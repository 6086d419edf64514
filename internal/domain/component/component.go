package component

import (
	"time"

	"github.com/google/uuid"
)

// Component is a building-element record, created standalone or promoted
// from a completed IFC import job.
type Component struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string         `gorm:"not null;column:name" json:"name"`
	Category    string         `gorm:"not null;column:category" json:"category"`
	Description string         `gorm:"column:description" json:"description"`
	IfcGuid     *string        `gorm:"column:ifc_guid;index" json:"ifc_guid"`
	PassportID  *uuid.UUID     `gorm:"type:uuid;column:passport_id;index" json:"passport_id"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	CreatedAt   time.Time  `gorm:"not null;default:now();index" json:"created_at"`
}

func (Component) TableName() string { return "component" }
