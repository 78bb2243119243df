package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/internal/herbs"
	"github.com/herblink/herblink-backend/pkg/db/models"
	"github.com/herblink/herblink-backend/pkg/enums"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes supplier stock management. Only the owning supplier can
// reach these through the router's role groups.
type Service interface {
	List(ctx context.Context, supplierID uuid.UUID) ([]models.SupplierInventory, error)
	Upsert(ctx context.Context, input UpsertInput) (*models.SupplierInventory, error)
	Delete(ctx context.Context, supplierID, entryID uuid.UUID) error
}

type service struct {
	repo  Repository
	herbs herbs.Service
	tx    txRunner
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, herbSvc herbs.Service, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if herbSvc == nil {
		return nil, fmt.Errorf("herbs service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, herbs: herbSvc, tx: tx}, nil
}

func (s *service) List(ctx context.Context, supplierID uuid.UUID) ([]models.SupplierInventory, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListForSupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return rows, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.SupplierInventory, error) {
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.QuantityAvailable.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity available cannot be negative")
	}
	if input.PricePerGram.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per gram cannot be negative")
	}
	grade := input.QualityGrade
	if grade == "" {
		grade = enums.QualityGradeA
	}
	if !grade.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quality grade must be A, B or C")
	}

	var out *models.SupplierInventory
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		herbID, err := s.resolveHerb(ctx, tx, input)
		if err != nil {
			return err
		}

		row := &models.SupplierInventory{
			ID:                uuid.New(),
			SupplierID:        input.SupplierID,
			HerbID:            herbID,
			QuantityAvailable: input.QuantityAvailable,
			PricePerGram:      input.PricePerGram,
			QualityGrade:      grade,
			ExpiryDate:        input.ExpiryDate,
		}
		saved, err := s.repo.WithTx(tx).Upsert(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert inventory")
		}
		out = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) resolveHerb(ctx context.Context, tx *gorm.DB, input UpsertInput) (uuid.UUID, error) {
	if input.HerbID != nil && *input.HerbID != uuid.Nil {
		return *input.HerbID, nil
	}
	herb, err := s.herbs.FindOrCreate(ctx, tx, input.HerbName)
	if err != nil {
		return uuid.Nil, err
	}
	return herb.ID, nil
}

func (s *service) Delete(ctx context.Context, supplierID, entryID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Delete(ctx, entryID, supplierID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory entry")
	}
	return nil
}
