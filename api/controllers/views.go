package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herblink/herblink-backend/pkg/db/models"
	"github.com/herblink/herblink-backend/pkg/enums"
)

// Models carry gorm tags only; controllers translate them into these
// json-tagged views so storage details never leak onto the wire.

type herbView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ChineseName *string   `json:"chinese_name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Unit        string    `json:"unit"`
}

type contactView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   *string   `json:"phone,omitempty"`
	Address *string   `json:"address,omitempty"`
}

type prescriptionItemView struct {
	ID              uuid.UUID       `json:"id"`
	HerbID          uuid.UUID       `json:"herb_id"`
	Herb            *herbView       `json:"herb,omitempty"`
	QuantityPerDose decimal.Decimal `json:"quantity_per_dose"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	Notes           *string         `json:"notes,omitempty"`
}

type prescriptionView struct {
	ID             uuid.UUID                `json:"id"`
	PractitionerID uuid.UUID                `json:"practitioner_id"`
	Practitioner   *contactView             `json:"practitioner,omitempty"`
	PatientName    string                   `json:"patient_name"`
	PatientPhone   *string                  `json:"patient_phone,omitempty"`
	PatientAddress *string                  `json:"patient_address,omitempty"`
	PatientDOB     *time.Time               `json:"patient_dob,omitempty"`
	Symptoms       *string                  `json:"symptoms,omitempty"`
	Diagnosis      *string                  `json:"diagnosis,omitempty"`
	TreatmentDays  int                      `json:"treatment_days"`
	DosesPerDay    int                      `json:"doses_per_day"`
	Status         enums.PrescriptionStatus `json:"status"`
	Notes          *string                  `json:"notes,omitempty"`
	Items          []prescriptionItemView   `json:"items"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

type orderView struct {
	ID                  uuid.UUID         `json:"id"`
	PrescriptionID      uuid.UUID         `json:"prescription_id"`
	Prescription        *prescriptionView `json:"prescription,omitempty"`
	SupplierID          uuid.UUID         `json:"supplier_id"`
	Supplier            *contactView      `json:"supplier,omitempty"`
	Status              enums.OrderStatus `json:"status"`
	TotalAmount         decimal.Decimal   `json:"total_amount"`
	EstimatedCompletion *time.Time        `json:"estimated_completion,omitempty"`
	ActualCompletion    *time.Time        `json:"actual_completion,omitempty"`
	Notes               *string           `json:"notes,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

type inventoryView struct {
	ID                uuid.UUID          `json:"id"`
	HerbID            uuid.UUID          `json:"herb_id"`
	Herb              *herbView          `json:"herb,omitempty"`
	QuantityAvailable decimal.Decimal    `json:"quantity_available"`
	PricePerGram      decimal.Decimal    `json:"price_per_gram"`
	QualityGrade      enums.QualityGrade `json:"quality_grade"`
	ExpiryDate        *time.Time         `json:"expiry_date,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// transitionView is the response for every lifecycle operation. Order is
// absent when the transition deleted it.
type transitionView struct {
	Order        *orderView        `json:"order,omitempty"`
	Prescription *prescriptionView `json:"prescription"`
}

type pageView[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

func herbToView(h *models.Herb) *herbView {
	if h == nil {
		return nil
	}
	return &herbView{
		ID:          h.ID,
		Name:        h.Name,
		ChineseName: h.ChineseName,
		Description: h.Description,
		Category:    h.Category,
		Unit:        h.Unit,
	}
}

func contactToView(u *models.User) *contactView {
	if u == nil {
		return nil
	}
	return &contactView{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
	}
}

func prescriptionToView(p *models.Prescription) *prescriptionView {
	if p == nil {
		return nil
	}
	items := make([]prescriptionItemView, 0, len(p.Items))
	for i := range p.Items {
		item := p.Items[i]
		items = append(items, prescriptionItemView{
			ID:              item.ID,
			HerbID:          item.HerbID,
			Herb:            herbToView(item.Herb),
			QuantityPerDose: item.QuantityPerDose,
			TotalQuantity:   item.TotalQuantity,
			Notes:           item.Notes,
		})
	}
	return &prescriptionView{
		ID:             p.ID,
		PractitionerID: p.PractitionerID,
		Practitioner:   contactToView(p.Practitioner),
		PatientName:    p.PatientName,
		PatientPhone:   p.PatientPhone,
		PatientAddress: p.PatientAddress,
		PatientDOB:     p.PatientDOB,
		Symptoms:       p.Symptoms,
		Diagnosis:      p.Diagnosis,
		TreatmentDays:  p.TreatmentDays,
		DosesPerDay:    p.DosesPerDay,
		Status:         p.Status,
		Notes:          p.Notes,
		Items:          items,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func orderToView(o *models.Order) *orderView {
	if o == nil {
		return nil
	}
	return &orderView{
		ID:                  o.ID,
		PrescriptionID:      o.PrescriptionID,
		Prescription:        prescriptionToView(o.Prescription),
		SupplierID:          o.SupplierID,
		Supplier:            contactToView(o.Supplier),
		Status:              o.Status,
		TotalAmount:         o.TotalAmount,
		EstimatedCompletion: o.EstimatedCompletion,
		ActualCompletion:    o.ActualCompletion,
		Notes:               o.Notes,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func inventoryToView(entry *models.SupplierInventory) *inventoryView {
	if entry == nil {
		return nil
	}
	return &inventoryView{
		ID:                entry.ID,
		HerbID:            entry.HerbID,
		Herb:              herbToView(entry.Herb),
		QuantityAvailable: entry.QuantityAvailable,
		PricePerGram:      entry.PricePerGram,
		QualityGrade:      entry.QualityGrade,
		ExpiryDate:        entry.ExpiryDate,
		UpdatedAt:         entry.UpdatedAt,
	}
}

func prescriptionsToPage(rows []models.Prescription, next *string) pageView[prescriptionView] {
	items := make([]prescriptionView, 0, len(rows))
	for i := range rows {
		items = append(items, *prescriptionToView(&rows[i]))
	}
	return pageView[prescriptionView]{Items: items, NextCursor: next}
}

func ordersToPage(rows []models.Order, next *string) pageView[orderView] {
	items := make([]orderView, 0, len(rows))
	for i := range rows {
		items = append(items, *orderToView(&rows[i]))
	}
	return pageView[orderView]{Items: items, NextCursor: next}
}
