package prescriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herblink/herblink-backend/pkg/db/models"
)

// CreateItemInput is one herb line on a new prescription. Herbs are resolved
// by name so practitioners can prescribe herbs no supplier has listed yet.
type CreateItemInput struct {
	HerbName        string
	QuantityPerDose decimal.Decimal
	Notes           *string
}

// CreateInput carries everything needed to write a prescription.
type CreateInput struct {
	PractitionerID uuid.UUID
	PatientName    string
	PatientPhone   *string
	PatientAddress *string
	PatientDOB     *time.Time
	Symptoms       *string
	Diagnosis      *string
	TreatmentDays  int
	DosesPerDay    int
	Notes          *string
	Items          []CreateItemInput
}

// List is one page of prescriptions plus the cursor for the next page.
type List struct {
	Prescriptions []models.Prescription
	NextCursor    *string
}
