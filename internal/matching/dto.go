package matching

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herblink/herblink-backend/pkg/enums"
)

// SortBy selects the ordering of matched suppliers.
type SortBy string

const (
	SortByName  SortBy = "name"
	SortByPrice SortBy = "price"
	SortByGrade SortBy = "grade"
)

// ParseSortBy maps the query value onto a known ordering, defaulting to name.
func ParseSortBy(value string) SortBy {
	switch SortBy(value) {
	case SortByPrice:
		return SortByPrice
	case SortByGrade:
		return SortByGrade
	default:
		return SortByName
	}
}

// HerbMatch is one herb line inside a supplier match.
type HerbMatch struct {
	HerbID            uuid.UUID          `json:"herb_id"`
	HerbName          string             `json:"herb_name"`
	RequiredQuantity  decimal.Decimal    `json:"required_quantity"`
	QuantityAvailable decimal.Decimal    `json:"quantity_available"`
	PricePerGram      decimal.Decimal    `json:"price_per_gram"`
	QualityGrade      enums.QualityGrade `json:"quality_grade"`
	ExpiryDate        *time.Time         `json:"expiry_date,omitempty"`
	LineTotal         decimal.Decimal    `json:"line_total"`
}

// SupplierMatch is one supplier able to fill the whole prescription.
type SupplierMatch struct {
	SupplierID     uuid.UUID       `json:"supplier_id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          *string         `json:"phone,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Herbs          []HerbMatch     `json:"herbs"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
}
