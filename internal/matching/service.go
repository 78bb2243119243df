package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/internal/inventory"
	"github.com/herblink/herblink-backend/internal/prescriptions"
	"github.com/herblink/herblink-backend/pkg/db/models"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
	"github.com/herblink/herblink-backend/pkg/metrics"
)

// Service finds suppliers able to fill a whole prescription. It is a pure
// read: nothing is reserved, so a match can go stale the moment inventory
// changes.
type Service interface {
	FindSuppliers(ctx context.Context, practitionerID, prescriptionID uuid.UUID, sortBy SortBy) ([]SupplierMatch, error)
}

type service struct {
	prescriptions prescriptions.Repository
	inventory     inventory.Repository
	metrics       *metrics.MatchingMetrics
}

// NewService builds a matching service. Metrics may be nil.
func NewService(prescriptionsRepo prescriptions.Repository, inventoryRepo inventory.Repository, matchingMetrics *metrics.MatchingMetrics) (Service, error) {
	if prescriptionsRepo == nil {
		return nil, fmt.Errorf("prescriptions repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{
		prescriptions: prescriptionsRepo,
		inventory:     inventoryRepo,
		metrics:       matchingMetrics,
	}, nil
}

func (s *service) FindSuppliers(ctx context.Context, practitionerID, prescriptionID uuid.UUID, sortBy SortBy) (matches []SupplierMatch, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveQuery(time.Since(start), len(matches), err) }()

	if practitionerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	prescription, err := s.prescriptions.FindByIDForPractitioner(ctx, prescriptionID, practitionerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load prescription")
	}
	if len(prescription.Items) == 0 {
		return []SupplierMatch{}, nil
	}

	required := make(map[uuid.UUID]decimal.Decimal, len(prescription.Items))
	herbIDs := make([]uuid.UUID, 0, len(prescription.Items))
	for _, item := range prescription.Items {
		if _, seen := required[item.HerbID]; !seen {
			herbIDs = append(herbIDs, item.HerbID)
		}
		// the same herb on two lines needs the combined quantity
		required[item.HerbID] = required[item.HerbID].Add(item.TotalQuantity)
	}

	rows, err := s.inventory.ListByHerbIDs(ctx, herbIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}

	matches = assemble(rows, required, len(required))
	sortMatches(matches, sortBy)
	return matches, nil
}

// assemble groups inventory rows by supplier and keeps only suppliers that
// cover every herb with quantity_available >= required (equality qualifies).
func assemble(rows []models.SupplierInventory, required map[uuid.UUID]decimal.Decimal, herbCount int) []SupplierMatch {
	bySupplier := make(map[uuid.UUID][]models.SupplierInventory)
	for _, row := range rows {
		bySupplier[row.SupplierID] = append(bySupplier[row.SupplierID], row)
	}

	matches := make([]SupplierMatch, 0, len(bySupplier))
	for supplierID, stock := range bySupplier {
		if len(stock) != herbCount {
			continue
		}

		herbs := make([]HerbMatch, 0, herbCount)
		total := decimal.Zero
		qualified := true
		for _, row := range stock {
			need := required[row.HerbID]
			if row.QuantityAvailable.LessThan(need) {
				qualified = false
				break
			}
			lineTotal := row.PricePerGram.Mul(need).Round(2)
			herb := HerbMatch{
				HerbID:            row.HerbID,
				RequiredQuantity:  need,
				QuantityAvailable: row.QuantityAvailable,
				PricePerGram:      row.PricePerGram,
				QualityGrade:      row.QualityGrade,
				ExpiryDate:        row.ExpiryDate,
				LineTotal:         lineTotal,
			}
			if row.Herb != nil {
				herb.HerbName = row.Herb.Name
			}
			herbs = append(herbs, herb)
			total = total.Add(row.PricePerGram.Mul(need))
		}
		if !qualified {
			continue
		}

		sort.Slice(herbs, func(i, j int) bool { return herbs[i].HerbName < herbs[j].HerbName })
		match := SupplierMatch{
			SupplierID:     supplierID,
			Herbs:          herbs,
			EstimatedTotal: total.Round(2),
		}
		if supplier := stock[0].Supplier; supplier != nil {
			match.Name = supplier.Name
			match.Email = supplier.Email
			match.Phone = supplier.Phone
			match.Address = supplier.Address
		}
		matches = append(matches, match)
	}
	return matches
}

func sortMatches(matches []SupplierMatch, sortBy SortBy) {
	switch sortBy {
	case SortByPrice:
		sort.Slice(matches, func(i, j int) bool {
			if !matches[i].EstimatedTotal.Equal(matches[j].EstimatedTotal) {
				return matches[i].EstimatedTotal.LessThan(matches[j].EstimatedTotal)
			}
			return matches[i].Name < matches[j].Name
		})
	case SortByGrade:
		sort.Slice(matches, func(i, j int) bool {
			ri, rj := worstGradeRank(matches[i]), worstGradeRank(matches[j])
			if ri != rj {
				return ri < rj
			}
			return matches[i].Name < matches[j].Name
		})
	default:
		sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	}
}

// worstGradeRank ranks a supplier by its weakest matched grade.
func worstGradeRank(match SupplierMatch) int {
	worst := 0
	for _, herb := range match.Herbs {
		if rank := herb.QualityGrade.Rank(); rank > worst {
			worst = rank
		}
	}
	return worst
}
