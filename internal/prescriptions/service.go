package prescriptions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/internal/herbs"
	"github.com/herblink/herblink-backend/pkg/db/models"
	"github.com/herblink/herblink-backend/pkg/enums"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
	"github.com/herblink/herblink-backend/pkg/pagination"
)

const defaultDosesPerDay = 2

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes prescription entry and the read surfaces both roles use.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Prescription, error)
	GetForPractitioner(ctx context.Context, practitionerID, prescriptionID uuid.UUID) (*models.Prescription, error)
	ListForPractitioner(ctx context.Context, practitionerID uuid.UUID, params pagination.Params) (*List, error)
	ListPendingFeed(ctx context.Context, params pagination.Params) (*List, error)
}

type service struct {
	repo  Repository
	herbs herbs.Service
	tx    txRunner
}

// NewService builds a prescriptions service with the required dependencies.
func NewService(repo Repository, herbSvc herbs.Service, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("prescriptions repository required")
	}
	if herbSvc == nil {
		return nil, fmt.Errorf("herbs service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, herbs: herbSvc, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Prescription, error) {
	if input.PractitionerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.PatientName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient name required")
	}
	if input.TreatmentDays < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "treatment days must be at least 1")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one herb item required")
	}
	dosesPerDay := input.DosesPerDay
	if dosesPerDay == 0 {
		dosesPerDay = defaultDosesPerDay
	}
	if dosesPerDay < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "doses per day must be at least 1")
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.HerbName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "herb name required").
				WithDetails(map[string]any{"item": i})
		}
		if !item.QuantityPerDose.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity per dose must be positive").
				WithDetails(map[string]any{"item": i})
		}
	}

	prescription := &models.Prescription{
		ID:             uuid.New(),
		PractitionerID: input.PractitionerID,
		PatientName:    strings.TrimSpace(input.PatientName),
		PatientPhone:   input.PatientPhone,
		PatientAddress: input.PatientAddress,
		PatientDOB:     input.PatientDOB,
		Symptoms:       input.Symptoms,
		Diagnosis:      input.Diagnosis,
		TreatmentDays:  input.TreatmentDays,
		DosesPerDay:    dosesPerDay,
		Status:         enums.PrescriptionStatusPending,
		Notes:          input.Notes,
	}

	// total_quantity = quantity_per_dose * doses_per_day * treatment_days
	multiplier := int64(dosesPerDay) * int64(input.TreatmentDays)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, prescription); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create prescription")
		}

		items := make([]models.PrescriptionItem, 0, len(input.Items))
		for _, item := range input.Items {
			herb, err := s.herbs.FindOrCreate(ctx, tx, item.HerbName)
			if err != nil {
				return err
			}
			items = append(items, models.PrescriptionItem{
				ID:              uuid.New(),
				PrescriptionID:  prescription.ID,
				HerbID:          herb.ID,
				QuantityPerDose: item.QuantityPerDose,
				TotalQuantity:   item.QuantityPerDose.Mul(decimal.NewFromInt(multiplier)),
				Notes:           item.Notes,
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create prescription items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, prescription.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload prescription")
	}
	return created, nil
}

func (s *service) GetForPractitioner(ctx context.Context, practitionerID, prescriptionID uuid.UUID) (*models.Prescription, error) {
	if practitionerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	prescription, err := s.repo.FindByIDForPractitioner(ctx, prescriptionID, practitionerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load prescription")
	}
	return prescription, nil
}

func (s *service) ListForPractitioner(ctx context.Context, practitionerID uuid.UUID, params pagination.Params) (*List, error) {
	if practitionerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListForPractitioner(ctx, practitionerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list prescriptions")
	}
	return list, nil
}

func (s *service) ListPendingFeed(ctx context.Context, params pagination.Params) (*List, error) {
	list, err := s.repo.ListPending(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending prescriptions")
	}
	return list, nil
}
