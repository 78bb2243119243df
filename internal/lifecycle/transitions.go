package lifecycle

import (
	"github.com/herblink/herblink-backend/pkg/enums"
)

// forwardChain is the supplier fulfillment track walked by AdvanceOrder.
// pending_confirmation enters the chain through AcceptOrder, and delivered
// exits it through CompleteOrder, so neither edge appears here.
var forwardChain = []enums.OrderStatus{
	enums.OrderStatusAccepted,
	enums.OrderStatusPreparing,
	enums.OrderStatusPacked,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
}

// prescriptionStatusByOrder couples every order status to the prescription
// status that must hold at the same time. A prescription with no order is
// always pending.
var prescriptionStatusByOrder = map[enums.OrderStatus]enums.PrescriptionStatus{
	enums.OrderStatusPendingConfirmation:   enums.PrescriptionStatusAwaitingSupplier,
	enums.OrderStatusAccepted:              enums.PrescriptionStatusAssigned,
	enums.OrderStatusPreparing:             enums.PrescriptionStatusInProgress,
	enums.OrderStatusPacked:                enums.PrescriptionStatusInProgress,
	enums.OrderStatusShipped:               enums.PrescriptionStatusInProgress,
	enums.OrderStatusDelivered:             enums.PrescriptionStatusInProgress,
	enums.OrderStatusCompleted:             enums.PrescriptionStatusCompleted,
	enums.OrderStatusCancellationRequested: enums.PrescriptionStatusCancellationPending,
}

// NextOrderStatus returns the forward-chain successor of the given status.
func NextOrderStatus(current enums.OrderStatus) (enums.OrderStatus, bool) {
	for i, status := range forwardChain {
		if status == current && i+1 < len(forwardChain) {
			return forwardChain[i+1], true
		}
	}
	return "", false
}

// PrevOrderStatus returns the forward-chain predecessor of the given status.
// accepted has no predecessor: leaving it goes through the cancellation flow.
func PrevOrderStatus(current enums.OrderStatus) (enums.OrderStatus, bool) {
	for i, status := range forwardChain {
		if status == current && i > 0 {
			return forwardChain[i-1], true
		}
	}
	return "", false
}

// PrescriptionStatusFor maps an order status to its coupled prescription
// status.
func PrescriptionStatusFor(orderStatus enums.OrderStatus) (enums.PrescriptionStatus, bool) {
	status, ok := prescriptionStatusByOrder[orderStatus]
	return status, ok
}
