package herbs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/pkg/db/models"
)

// Repository exposes herb catalogue lookups and the upsert used during
// prescription entry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, herb *models.Herb) (*models.Herb, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Herb, error)
	FindByName(ctx context.Context, name string) (*models.Herb, error)
	List(ctx context.Context) ([]models.Herb, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a herbs repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, herb *models.Herb) (*models.Herb, error) {
	if err := r.db.WithContext(ctx).Create(herb).Error; err != nil {
		return nil, err
	}
	return herb, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Herb, error) {
	var herb models.Herb
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&herb).Error
	if err != nil {
		return nil, err
	}
	return &herb, nil
}

// FindByName matches either the latin name or the chinese name.
func (r *repository) FindByName(ctx context.Context, name string) (*models.Herb, error) {
	var herb models.Herb
	err := r.db.WithContext(ctx).
		Where("name = ? OR chinese_name = ?", name, name).
		First(&herb).Error
	if err != nil {
		return nil, err
	}
	return &herb, nil
}

func (r *repository) List(ctx context.Context) ([]models.Herb, error) {
	var out []models.Herb
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
