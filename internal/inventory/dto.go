package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herblink/herblink-backend/pkg/enums"
)

// UpsertInput writes one supplier/herb stock row. HerbName is used when
// HerbID is nil, creating the herb on first listing.
type UpsertInput struct {
	SupplierID        uuid.UUID
	HerbID            *uuid.UUID
	HerbName          string
	QuantityAvailable decimal.Decimal
	PricePerGram      decimal.Decimal
	QualityGrade      enums.QualityGrade
	ExpiryDate        *time.Time
}
