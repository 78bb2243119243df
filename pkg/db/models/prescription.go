package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/herblink/herblink-backend/pkg/enums"
)

// Prescription is the root entity of the workflow. Status is the
// authoritative workflow pointer; at most one active Order may reference a
// prescription at a time.
type Prescription struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PractitionerID uuid.UUID                `gorm:"column:practitioner_id;type:uuid;not null;index"`
	PatientName    string                   `gorm:"column:patient_name;not null"`
	PatientPhone   *string                  `gorm:"column:patient_phone"`
	PatientAddress *string                  `gorm:"column:patient_address"`
	PatientDOB     *time.Time               `gorm:"column:patient_dob"`
	Symptoms       *string                  `gorm:"column:symptoms"`
	Diagnosis      *string                  `gorm:"column:diagnosis"`
	TreatmentDays  int                      `gorm:"column:treatment_days;not null"`
	DosesPerDay    int                      `gorm:"column:doses_per_day;not null;default:2"`
	Status         enums.PrescriptionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Notes          *string                  `gorm:"column:notes"`
	Items          []PrescriptionItem       `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`
	Practitioner   *User                    `gorm:"foreignKey:PractitionerID"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
