package herbs

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/pkg/db/models"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
)

// Service exposes the herb catalogue operations.
type Service interface {
	List(ctx context.Context) ([]models.Herb, error)
	// FindOrCreate resolves a herb by latin or chinese name, creating it on
	// first use. Runs inside the caller's transaction when tx is non-nil.
	FindOrCreate(ctx context.Context, tx *gorm.DB, name string) (*models.Herb, error)
}

type service struct {
	repo Repository
}

// NewService builds a herb catalogue service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("herbs repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Herb, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list herbs")
	}
	return out, nil
}

func (s *service) FindOrCreate(ctx context.Context, tx *gorm.DB, name string) (*models.Herb, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "herb name required")
	}

	repo := s.repo.WithTx(tx)
	herb, err := repo.FindByName(ctx, trimmed)
	if err == nil {
		return herb, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find herb")
	}

	created, err := repo.Create(ctx, &models.Herb{
		ID:   uuid.New(),
		Name: trimmed,
		Unit: "gram",
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create herb")
	}
	return created, nil
}
