// internal/models/import.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ImportRecord is one row per reconciliation run. Finalized records are
// append-only history.
type ImportRecord struct {
	BaseModel
	AdminUserID *uuid.UUID   `json:"admin_user_id" gorm:"type:uuid;index"`
	Filename    string       `json:"filename" gorm:"size:255"`
	Status      ImportStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	ContainersProcessed int `json:"containers_processed" gorm:"default:0"`
	ContainersAdded     int `json:"containers_added" gorm:"default:0"`
	ContainersUpdated   int `json:"containers_updated" gorm:"default:0"`
	ContainersRemoved   int `json:"containers_removed" gorm:"default:0"`

	// External ids seen in this run; the active set after a completed run.
	ProcessedIDs pq.StringArray `json:"processed_ids,omitempty" gorm:"type:text[]"`

	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
	CompletedAt  *time.Time `json:"completed_at"`
}
