package enums

import "fmt"

// PrescriptionStatus is the practitioner-side workflow pointer. The lifecycle
// service is the only trusted writer of transitions between these values.
type PrescriptionStatus string

const (
	PrescriptionStatusPending             PrescriptionStatus = "pending"
	PrescriptionStatusAwaitingSupplier    PrescriptionStatus = "awaiting_supplier_confirmation"
	PrescriptionStatusAssigned            PrescriptionStatus = "assigned"
	PrescriptionStatusInProgress          PrescriptionStatus = "in_progress"
	PrescriptionStatusCompleted           PrescriptionStatus = "completed"
	PrescriptionStatusCancellationPending PrescriptionStatus = "cancellation_pending"
)

var validPrescriptionStatuses = []PrescriptionStatus{
	PrescriptionStatusPending,
	PrescriptionStatusAwaitingSupplier,
	PrescriptionStatusAssigned,
	PrescriptionStatusInProgress,
	PrescriptionStatusCompleted,
	PrescriptionStatusCancellationPending,
}

// String implements fmt.Stringer.
func (p PrescriptionStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrescriptionStatus.
func (p PrescriptionStatus) IsValid() bool {
	for _, candidate := range validPrescriptionStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrescriptionStatus converts raw input into a PrescriptionStatus.
func ParsePrescriptionStatus(value string) (PrescriptionStatus, error) {
	for _, candidate := range validPrescriptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid prescription status %q", value)
}
