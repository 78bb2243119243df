package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herblink/herblink-backend/pkg/enums"
)

// SupplierInventory holds one supplier's priced stock of one herb. Mutated
// only by the owning supplier; the matching engine reads it without ever
// reserving stock.
type SupplierInventory struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID        uuid.UUID          `gorm:"column:supplier_id;type:uuid;not null;uniqueIndex:idx_supplier_herb"`
	HerbID            uuid.UUID          `gorm:"column:herb_id;type:uuid;not null;uniqueIndex:idx_supplier_herb"`
	QuantityAvailable decimal.Decimal    `gorm:"column:quantity_available;type:numeric(10,2);not null;default:0"`
	PricePerGram      decimal.Decimal    `gorm:"column:price_per_gram;type:numeric(10,4)"`
	QualityGrade      enums.QualityGrade `gorm:"column:quality_grade;type:text"`
	ExpiryDate        *time.Time         `gorm:"column:expiry_date"`
	Herb              *Herb              `gorm:"foreignKey:HerbID"`
	Supplier          *User              `gorm:"foreignKey:SupplierID"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (SupplierInventory) TableName() string {
	return "supplier_inventory"
}
