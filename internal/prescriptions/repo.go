package prescriptions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/pkg/db/models"
	"github.com/herblink/herblink-backend/pkg/enums"
	"github.com/herblink/herblink-backend/pkg/pagination"
)

// Repository exposes prescription persistence. Lifecycle status writes go
// through the lifecycle service, which rebinds this repository with WithTx.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, prescription *models.Prescription) (*models.Prescription, error)
	CreateItems(ctx context.Context, items []models.PrescriptionItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error)
	FindByIDForPractitioner(ctx context.Context, id, practitionerID uuid.UUID) (*models.Prescription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PrescriptionStatus) error
	ListForPractitioner(ctx context.Context, practitionerID uuid.UUID, params pagination.Params) (*List, error)
	ListPending(ctx context.Context, params pagination.Params) (*List, error)
	DeleteItems(ctx context.Context, prescriptionID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a prescriptions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, prescription *models.Prescription) (*models.Prescription, error) {
	if err := r.db.WithContext(ctx).Omit("Items", "Practitioner").Create(prescription).Error; err != nil {
		return nil, err
	}
	return prescription, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.PrescriptionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Herb").Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Items.Herb").
		Where("id = ?", id).
		First(&prescription).Error
	if err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *repository) FindByIDForPractitioner(ctx context.Context, id, practitionerID uuid.UUID) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Items.Herb").
		Where("id = ? AND practitioner_id = ?", id, practitionerID).
		First(&prescription).Error
	if err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PrescriptionStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListForPractitioner(ctx context.Context, practitionerID uuid.UUID, params pagination.Params) (*List, error) {
	query := r.db.WithContext(ctx).
		Preload("Items.Herb").
		Where("practitioner_id = ?", practitionerID)
	return r.listPage(ctx, query, params)
}

func (r *repository) ListPending(ctx context.Context, params pagination.Params) (*List, error) {
	query := r.db.WithContext(ctx).
		Preload("Items.Herb").
		Preload("Practitioner").
		Where("status = ?", enums.PrescriptionStatusPending)
	return r.listPage(ctx, query, params)
}

func (r *repository) listPage(ctx context.Context, query *gorm.DB, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Prescription
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &List{Prescriptions: rows}
	if len(rows) > limit {
		list.Prescriptions = rows[:limit]
		last := list.Prescriptions[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}

func (r *repository) DeleteItems(ctx context.Context, prescriptionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("prescription_id = ?", prescriptionID).
		Delete(&models.PrescriptionItem{}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Prescription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
