package imports

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	JobTypeExcel = "excel"
	JobTypeCSV   = "csv"
	JobTypeIFC   = "ifc"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ImportJob records one file-import attempt. Jobs enter in processing and
// transition exactly once to completed or failed; terminal jobs are
// immutable. Status and result/error are written in a single update so a
// poll never observes a half-written terminal state.
type ImportJob struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type         string         `gorm:"not null;column:type" json:"type"`
	Filename     string         `gorm:"not null;column:filename" json:"filename"`
	Status       string         `gorm:"not null;default:processing;column:status;index" json:"status"`
	ResultData   datatypes.JSON `gorm:"column:result_data" json:"result_data"`
	ErrorMessage *string        `gorm:"column:error_message" json:"error_message"`
	AuthorID     uuid.UUID      `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	CreatedAt    time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ImportJob) TableName() string { return "import_job" }

func (j *ImportJob) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
