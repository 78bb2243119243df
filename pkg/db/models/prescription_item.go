package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrescriptionItem is one herb line within a prescription. TotalQuantity is
// derived: quantity_per_dose * doses_per_day * treatment_days.
type PrescriptionItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PrescriptionID  uuid.UUID       `gorm:"column:prescription_id;type:uuid;not null;index"`
	HerbID          uuid.UUID       `gorm:"column:herb_id;type:uuid;not null"`
	QuantityPerDose decimal.Decimal `gorm:"column:quantity_per_dose;type:numeric(10,2);not null"`
	TotalQuantity   decimal.Decimal `gorm:"column:total_quantity;type:numeric(10,2);not null"`
	Notes           *string         `gorm:"column:notes"`
	Herb            *Herb           `gorm:"foreignKey:HerbID"`
}
