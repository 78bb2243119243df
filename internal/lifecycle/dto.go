package lifecycle

import (
	"github.com/google/uuid"

	"github.com/herblink/herblink-backend/pkg/db/models"
)

// ClaimInput lets a supplier take a pending prescription directly.
type ClaimInput struct {
	SupplierID     uuid.UUID
	PrescriptionID uuid.UUID
	Notes          *string
}

// SelectSupplierInput lets a practitioner route a pending prescription to a
// chosen supplier for confirmation.
type SelectSupplierInput struct {
	PractitionerID uuid.UUID
	PrescriptionID uuid.UUID
	SupplierID     uuid.UUID
	Notes          *string
}

// OrderActionInput identifies an order mutation performed by its supplier.
type OrderActionInput struct {
	SupplierID uuid.UUID
	OrderID    uuid.UUID
}

// CancellationRequestInput carries the supplier's ask to abandon an
// in-flight order.
type CancellationRequestInput struct {
	SupplierID uuid.UUID
	OrderID    uuid.UUID
	Reason     string
}

// CancellationDecisionInput carries the practitioner's answer to a pending
// cancellation request. Ownership resolves through the order's prescription.
// Reason is required when denying.
type CancellationDecisionInput struct {
	PractitionerID uuid.UUID
	OrderID        uuid.UUID
	Reason         string
}

// CancelPrescriptionInput deletes a prescription before any supplier has
// committed to it.
type CancelPrescriptionInput struct {
	PractitionerID uuid.UUID
	PrescriptionID uuid.UUID
}

// TransitionResult reports the post-transition pair. Order is nil when the
// operation deleted the order (reject, approved cancellation).
type TransitionResult struct {
	Order        *models.Order
	Prescription *models.Prescription
}
