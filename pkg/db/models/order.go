package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herblink/herblink-backend/pkg/enums"
)

// Order is the supplier-facing fulfillment record for one prescription.
// Rejection and approved cancellation delete the row, which is what makes
// the prescription re-matchable; the unique index on prescription_id is the
// storage-level guarantee that at most one order is active per prescription.
type Order struct {
	ID                  uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PrescriptionID      uuid.UUID         `gorm:"column:prescription_id;type:uuid;not null;uniqueIndex"`
	SupplierID          uuid.UUID         `gorm:"column:supplier_id;type:uuid;not null;index"`
	Status              enums.OrderStatus `gorm:"column:status;type:text;not null;default:'accepted'"`
	EstimatedCompletion *time.Time        `gorm:"column:estimated_completion"`
	ActualCompletion    *time.Time        `gorm:"column:actual_completion"`
	TotalAmount         decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2)"`
	Notes               *string           `gorm:"column:notes"`
	Prescription        *Prescription     `gorm:"foreignKey:PrescriptionID"`
	Supplier            *User             `gorm:"foreignKey:SupplierID"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
