package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/pkg/db/models"
	"github.com/herblink/herblink-backend/pkg/pagination"
)

// Repository exposes order persistence. Status writes carry along any
// companion fields (completion timestamps, notes) in one update.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindForSupplier(ctx context.Context, id, supplierID uuid.UUID) (*models.Order, error)
	FindForPractitioner(ctx context.Context, id, practitionerID uuid.UUID) (*models.Order, error)
	FindByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*List, error)
	ListForPractitioner(ctx context.Context, practitionerID uuid.UUID, params pagination.Params) (*List, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Prescription", "Supplier").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindForSupplier(ctx context.Context, id, supplierID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Prescription.Items.Herb").
		Where("id = ? AND supplier_id = ?", id, supplierID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForPractitioner resolves an order through the owning prescription.
func (r *repository) FindForPractitioner(ctx context.Context, id, practitionerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Prescription.Items.Herb").
		Preload("Supplier").
		Joins("JOIN prescriptions ON prescriptions.id = orders.prescription_id").
		Where("orders.id = ? AND prescriptions.practitioner_id = ?", id, practitionerID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("prescription_id = ?", prescriptionID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*List, error) {
	query := r.db.WithContext(ctx).
		Preload("Prescription.Items.Herb").
		Where("supplier_id = ?", supplierID)
	return r.listPage(ctx, query, params)
}

func (r *repository) ListForPractitioner(ctx context.Context, practitionerID uuid.UUID, params pagination.Params) (*List, error) {
	query := r.db.WithContext(ctx).
		Preload("Prescription.Items.Herb").
		Preload("Supplier").
		Joins("JOIN prescriptions ON prescriptions.id = orders.prescription_id").
		Where("prescriptions.practitioner_id = ?", practitionerID)
	return r.listPage(ctx, query, params)
}

func (r *repository) listPage(ctx context.Context, query *gorm.DB, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(orders.created_at < ?) OR (orders.created_at = ? AND orders.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Order
	err = query.
		Order("orders.created_at DESC, orders.id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &List{Orders: rows}
	if len(rows) > limit {
		list.Orders = rows[:limit]
		last := list.Orders[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}
