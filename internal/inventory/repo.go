package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/herblink/herblink-backend/pkg/db/models"
)

// Repository exposes supplier inventory persistence. Upsert keys on the
// (supplier_id, herb_id) unique constraint so repeated writes are idempotent.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]models.SupplierInventory, error)
	FindForSupplierHerb(ctx context.Context, supplierID, herbID uuid.UUID) (*models.SupplierInventory, error)
	ListByHerbIDs(ctx context.Context, herbIDs []uuid.UUID) ([]models.SupplierInventory, error)
	Upsert(ctx context.Context, row *models.SupplierInventory) (*models.SupplierInventory, error)
	Delete(ctx context.Context, id, supplierID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]models.SupplierInventory, error) {
	var rows []models.SupplierInventory
	err := r.db.WithContext(ctx).
		Preload("Herb").
		Joins("JOIN herbs ON herbs.id = supplier_inventory.herb_id").
		Where("supplier_inventory.supplier_id = ?", supplierID).
		Order("herbs.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindForSupplierHerb(ctx context.Context, supplierID, herbID uuid.UUID) (*models.SupplierInventory, error) {
	var row models.SupplierInventory
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND herb_id = ?", supplierID, herbID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByHerbIDs feeds the matching engine: every priced row for the wanted
// herbs, with supplier and herb loaded for the response payload.
func (r *repository) ListByHerbIDs(ctx context.Context, herbIDs []uuid.UUID) ([]models.SupplierInventory, error) {
	if len(herbIDs) == 0 {
		return nil, nil
	}
	var rows []models.SupplierInventory
	err := r.db.WithContext(ctx).
		Preload("Herb").
		Preload("Supplier").
		Where("herb_id IN ?", herbIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Upsert(ctx context.Context, row *models.SupplierInventory) (*models.SupplierInventory, error) {
	err := r.db.WithContext(ctx).
		Omit("Herb", "Supplier").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "supplier_id"}, {Name: "herb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity_available", "price_per_gram", "quality_grade", "expiry_date", "updated_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.FindForSupplierHerb(ctx, row.SupplierID, row.HerbID)
}

func (r *repository) Delete(ctx context.Context, id, supplierID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND supplier_id = ?", id, supplierID).
		Delete(&models.SupplierInventory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
