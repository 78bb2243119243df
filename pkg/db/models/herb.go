package models

import (
	"time"

	"github.com/google/uuid"
)

// Herb is global reference data shared by prescriptions and inventory.
// Unmatched names entered during prescription entry are upserted on demand.
type Herb struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	ChineseName *string   `gorm:"column:chinese_name"`
	Description *string   `gorm:"column:description"`
	Category    *string   `gorm:"column:category"`
	Unit        string    `gorm:"column:unit;not null;default:'gram'"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
