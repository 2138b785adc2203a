// internal/models/container.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Container struct {
	BaseModel
	// Stable identifier from the import file (e.g. FONU11320953),
	// used for matching on re-import. Immutable once assigned.
	ExternalID  string           `json:"external_id" gorm:"size:64;uniqueIndex;not null"`
	Name        string           `json:"name" gorm:"size:128;not null"`
	Size        string           `json:"size" gorm:"size:64;not null"`
	Condition   Condition        `json:"condition" gorm:"type:varchar(10);default:'used';not null"`
	Price       *decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"` // nil means "price on request"
	Description string           `json:"description" gorm:"type:text"`
	IsActive    bool             `json:"is_active" gorm:"default:true;not null;index"`

	// Relationships
	Photos []ContainerPhoto `json:"photos,omitempty" gorm:"foreignKey:ContainerID;constraint:OnDelete:CASCADE"`
}

type ContainerPhoto struct {
	BaseModel
	ContainerID uuid.UUID `json:"container_id" gorm:"type:uuid;not null;index"`
	// Stored blob reference, e.g. /uploads/<hash>.jpg or an S3 URL.
	URL string `json:"url" gorm:"size:512;not null"`
	// Source URL from the import file, kept for audit.
	OriginalURL  string `json:"original_url,omitempty" gorm:"size:512"`
	DisplayOrder int    `json:"display_order" gorm:"default:1;not null"`
	// At most one photo per container carries the flag; consumers fall
	// back to the lowest display order when none does.
	IsMain bool `json:"is_main" gorm:"default:false;not null"`
}
