package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/internal/inventory"
	"github.com/herblink/herblink-backend/internal/orders"
	"github.com/herblink/herblink-backend/internal/prescriptions"
	"github.com/herblink/herblink-backend/internal/users"
	"github.com/herblink/herblink-backend/pkg/db"
	"github.com/herblink/herblink-backend/pkg/db/models"
	"github.com/herblink/herblink-backend/pkg/enums"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
	"github.com/herblink/herblink-backend/pkg/metrics"
)

const confirmationWindow = 72 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the only trusted writer of the prescription/order status pair.
// Every operation checks its precondition and performs its writes inside one
// transaction, so racing callers lose with a state conflict instead of
// leaving the pair out of step.
type Service interface {
	ClaimPrescription(ctx context.Context, input ClaimInput) (*TransitionResult, error)
	SelectSupplier(ctx context.Context, input SelectSupplierInput) (*TransitionResult, error)
	AcceptOrder(ctx context.Context, input OrderActionInput) (*TransitionResult, error)
	RejectOrder(ctx context.Context, input OrderActionInput) (*TransitionResult, error)
	AdvanceOrder(ctx context.Context, input OrderActionInput) (*TransitionResult, error)
	RevertOrder(ctx context.Context, input OrderActionInput) (*TransitionResult, error)
	CompleteOrder(ctx context.Context, input OrderActionInput) (*TransitionResult, error)
	RequestCancellation(ctx context.Context, input CancellationRequestInput) (*TransitionResult, error)
	ApproveCancellation(ctx context.Context, input CancellationDecisionInput) (*TransitionResult, error)
	DenyCancellation(ctx context.Context, input CancellationDecisionInput) (*TransitionResult, error)
	CancelPrescription(ctx context.Context, input CancelPrescriptionInput) error
}

type service struct {
	orders        orders.Repository
	prescriptions prescriptions.Repository
	users         users.Repository
	inventory     inventory.Repository
	tx            txRunner
	metrics       *metrics.LifecycleMetrics
	now           func() time.Time
}

// NewService builds the lifecycle service with the required dependencies.
// Metrics may be nil.
func NewService(
	ordersRepo orders.Repository,
	prescriptionsRepo prescriptions.Repository,
	usersRepo users.Repository,
	inventoryRepo inventory.Repository,
	tx txRunner,
	lifecycleMetrics *metrics.LifecycleMetrics,
) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if prescriptionsRepo == nil {
		return nil, fmt.Errorf("prescriptions repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		orders:        ordersRepo,
		prescriptions: prescriptionsRepo,
		users:         usersRepo,
		inventory:     inventoryRepo,
		tx:            tx,
		metrics:       lifecycleMetrics,
		now:           time.Now,
	}, nil
}

func (s *service) observe(operation string, start time.Time, err error) {
	s.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(operation)
		return
	}
	s.metrics.IncSuccess(operation)
}

func (s *service) ClaimPrescription(ctx context.Context, input ClaimInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("claim_prescription", start, err) }()
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PrescriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prescription id required")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		prescriptionRepo := s.prescriptions.WithTx(tx)
		prescription, err := prescriptionRepo.FindByID(ctx, input.PrescriptionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load prescription")
		}
		if prescription.Status != enums.PrescriptionStatusPending {
			return stateConflict(prescription.Status, enums.PrescriptionStatusPending)
		}

		total, err := s.priceForSupplier(ctx, tx, input.SupplierID, prescription)
		if err != nil {
			return err
		}

		order := &models.Order{
			ID:             uuid.New(),
			PrescriptionID: prescription.ID,
			SupplierID:     input.SupplierID,
			Status:         enums.OrderStatusAccepted,
			TotalAmount:    total,
			Notes:          input.Notes,
		}
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "prescription already has an active order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := prescriptionRepo.UpdateStatus(ctx, prescription.ID, enums.PrescriptionStatusAssigned); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update prescription status")
		}

		prescription.Status = enums.PrescriptionStatusAssigned
		result = &TransitionResult{Order: order, Prescription: prescription}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) SelectSupplier(ctx context.Context, input SelectSupplierInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("select_supplier", start, err) }()
	if input.PractitionerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PrescriptionID == uuid.Nil || input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prescription id and supplier id required")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		prescriptionRepo := s.prescriptions.WithTx(tx)
		prescription, err := prescriptionRepo.FindByIDForPractitioner(ctx, input.PrescriptionID, input.PractitionerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load prescription")
		}
		if prescription.Status != enums.PrescriptionStatusPending {
			return stateConflict(prescription.Status, enums.PrescriptionStatusPending)
		}

		if _, err := s.users.WithTx(tx).FindSupplierByID(ctx, input.SupplierID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}

		total, err := s.priceForSupplier(ctx, tx, input.SupplierID, prescription)
		if err != nil {
			return err
		}

		estimated := s.now().Add(confirmationWindow)
		order := &models.Order{
			ID:                  uuid.New(),
			PrescriptionID:      prescription.ID,
			SupplierID:          input.SupplierID,
			Status:              enums.OrderStatusPendingConfirmation,
			EstimatedCompletion: &estimated,
			TotalAmount:         total,
			Notes:               input.Notes,
		}
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "prescription already has an active order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := prescriptionRepo.UpdateStatus(ctx, prescription.ID, enums.PrescriptionStatusAwaitingSupplier); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update prescription status")
		}

		prescription.Status = enums.PrescriptionStatusAwaitingSupplier
		result = &TransitionResult{Order: order, Prescription: prescription}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) AcceptOrder(ctx context.Context, input OrderActionInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("accept_order", start, err) }()
	err = s.supplierOrderTransition(ctx, input, func(tx *gorm.DB, order *models.Order) error {
		if order.Status != enums.OrderStatusPendingConfirmation {
			return stateConflict(order.Status, enums.OrderStatusPendingConfirmation)
		}
		return s.applyPair(ctx, tx, order, enums.OrderStatusAccepted, map[string]any{
			"status": enums.OrderStatusAccepted,
		})
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) RejectOrder(ctx context.Context, input OrderActionInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("reject_order", start, err) }()
	err = s.supplierOrderTransition(ctx, input, func(tx *gorm.DB, order *models.Order) error {
		if order.Status != enums.OrderStatusPendingConfirmation {
			return stateConflict(order.Status, enums.OrderStatusPendingConfirmation)
		}
		return s.releasePrescription(ctx, tx, order)
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) AdvanceOrder(ctx context.Context, input OrderActionInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("advance_order", start, err) }()
	err = s.supplierOrderTransition(ctx, input, func(tx *gorm.DB, order *models.Order) error {
		next, ok := NextOrderStatus(order.Status)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot advance from current status").
				WithDetails(map[string]any{"current": order.Status})
		}
		updates := map[string]any{"status": next}
		if next == enums.OrderStatusDelivered {
			now := s.now()
			updates["actual_completion"] = &now
			order.ActualCompletion = &now
		}
		return s.applyPair(ctx, tx, order, next, updates)
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) RevertOrder(ctx context.Context, input OrderActionInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("revert_order", start, err) }()
	err = s.supplierOrderTransition(ctx, input, func(tx *gorm.DB, order *models.Order) error {
		prev, ok := PrevOrderStatus(order.Status)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no status to revert to").
				WithDetails(map[string]any{"current": order.Status})
		}
		updates := map[string]any{"status": prev}
		if order.Status == enums.OrderStatusDelivered {
			updates["actual_completion"] = nil
			order.ActualCompletion = nil
		}
		return s.applyPair(ctx, tx, order, prev, updates)
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) CompleteOrder(ctx context.Context, input OrderActionInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("complete_order", start, err) }()
	err = s.supplierOrderTransition(ctx, input, func(tx *gorm.DB, order *models.Order) error {
		if order.Status != enums.OrderStatusDelivered {
			return stateConflict(order.Status, enums.OrderStatusDelivered)
		}
		return s.applyPair(ctx, tx, order, enums.OrderStatusCompleted, map[string]any{
			"status": enums.OrderStatusCompleted,
		})
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) RequestCancellation(ctx context.Context, input CancellationRequestInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("request_cancellation", start, err) }()
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason required")
	}

	err = s.supplierOrderTransition(ctx, OrderActionInput{SupplierID: input.SupplierID, OrderID: input.OrderID}, func(tx *gorm.DB, order *models.Order) error {
		if order.Status != enums.OrderStatusAccepted && order.Status != enums.OrderStatusPreparing {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation can only be requested while accepted or preparing").
				WithDetails(map[string]any{"current": order.Status})
		}
		notes := appendNote(order.Notes, "CANCELLATION REQUESTED: "+reason)
		order.Notes = &notes
		return s.applyPair(ctx, tx, order, enums.OrderStatusCancellationRequested, map[string]any{
			"status": enums.OrderStatusCancellationRequested,
			"notes":  notes,
		})
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ApproveCancellation(ctx context.Context, input CancellationDecisionInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("approve_cancellation", start, err) }()
	err = s.practitionerOrderTransition(ctx, input.PractitionerID, input.OrderID, func(tx *gorm.DB, order *models.Order) error {
		if order.Status != enums.OrderStatusCancellationRequested {
			return stateConflict(order.Status, enums.OrderStatusCancellationRequested)
		}
		return s.releasePrescription(ctx, tx, order)
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) DenyCancellation(ctx context.Context, input CancellationDecisionInput) (result *TransitionResult, err error) {
	start := s.now()
	defer func() { s.observe("deny_cancellation", start, err) }()
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "denial reason required")
	}

	err = s.practitionerOrderTransition(ctx, input.PractitionerID, input.OrderID, func(tx *gorm.DB, order *models.Order) error {
		if order.Status != enums.OrderStatusCancellationRequested {
			return stateConflict(order.Status, enums.OrderStatusCancellationRequested)
		}
		notes := appendNote(order.Notes, "CANCELLATION DENIED: "+reason)
		order.Notes = &notes
		return s.applyPair(ctx, tx, order, enums.OrderStatusAccepted, map[string]any{
			"status": enums.OrderStatusAccepted,
			"notes":  notes,
		})
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) CancelPrescription(ctx context.Context, input CancelPrescriptionInput) (err error) {
	start := s.now()
	defer func() { s.observe("cancel_prescription", start, err) }()
	if input.PractitionerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PrescriptionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "prescription id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		prescriptionRepo := s.prescriptions.WithTx(tx)
		prescription, err := prescriptionRepo.FindByIDForPractitioner(ctx, input.PrescriptionID, input.PractitionerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load prescription")
		}
		if prescription.Status != enums.PrescriptionStatusPending &&
			prescription.Status != enums.PrescriptionStatusAwaitingSupplier {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "prescription can only be cancelled before a supplier commits").
				WithDetails(map[string]any{"current": prescription.Status})
		}

		ordersRepo := s.orders.WithTx(tx)
		order, err := ordersRepo.FindByPrescription(ctx, prescription.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order != nil {
			if err := ordersRepo.Delete(ctx, order.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
			}
		}
		if err := prescriptionRepo.DeleteItems(ctx, prescription.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete prescription items")
		}
		if err := prescriptionRepo.Delete(ctx, prescription.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete prescription")
		}
		return nil
	})
}

// supplierOrderTransition wraps the load/ownership/mutation sequence shared
// by every supplier-side order operation.
func (s *service) supplierOrderTransition(
	ctx context.Context,
	input OrderActionInput,
	mutate func(tx *gorm.DB, order *models.Order) error,
	result **TransitionResult,
) error {
	if input.SupplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.WithTx(tx).FindForSupplier(ctx, input.OrderID, input.SupplierID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := mutate(tx, order); err != nil {
			return err
		}
		res := &TransitionResult{Order: order, Prescription: order.Prescription}
		if order.Status == "" {
			// the mutation deleted the order
			res.Order = nil
		}
		*result = res
		return nil
	})
}

// practitionerOrderTransition is the cross-role counterpart of
// supplierOrderTransition: cancellation decisions belong to the
// practitioner, whose ownership resolves through the order's prescription.
func (s *service) practitionerOrderTransition(
	ctx context.Context,
	practitionerID, orderID uuid.UUID,
	mutate func(tx *gorm.DB, order *models.Order) error,
	result **TransitionResult,
) error {
	if practitionerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.WithTx(tx).FindForPractitioner(ctx, orderID, practitionerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := mutate(tx, order); err != nil {
			return err
		}
		res := &TransitionResult{Order: order, Prescription: order.Prescription}
		if order.Status == "" {
			// the mutation deleted the order
			res.Order = nil
		}
		*result = res
		return nil
	})
}

// applyPair writes the order update and the coupled prescription status in
// the same transaction.
func (s *service) applyPair(ctx context.Context, tx *gorm.DB, order *models.Order, target enums.OrderStatus, updates map[string]any) error {
	prescriptionStatus, ok := PrescriptionStatusFor(target)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInternal, "no prescription status mapped for order status").
			WithDetails(map[string]any{"order_status": target})
	}
	if err := s.orders.WithTx(tx).Update(ctx, order.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if err := s.prescriptions.WithTx(tx).UpdateStatus(ctx, order.PrescriptionID, prescriptionStatus); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update prescription status")
	}
	order.Status = target
	if order.Prescription != nil {
		order.Prescription.Status = prescriptionStatus
	}
	return nil
}

// releasePrescription deletes the order and returns the prescription to the
// open pool.
func (s *service) releasePrescription(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if err := s.orders.WithTx(tx).Delete(ctx, order.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if err := s.prescriptions.WithTx(tx).UpdateStatus(ctx, order.PrescriptionID, enums.PrescriptionStatusPending); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update prescription status")
	}
	order.Status = ""
	if order.Prescription != nil {
		order.Prescription.Status = enums.PrescriptionStatusPending
	}
	return nil
}

// priceForSupplier verifies the supplier stocks every herb at sufficient
// quantity and prices the order at 2dp.
func (s *service) priceForSupplier(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID, prescription *models.Prescription) (decimal.Decimal, error) {
	inventoryRepo := s.inventory.WithTx(tx)
	total := decimal.Zero
	for _, item := range prescription.Items {
		stock, err := inventoryRepo.FindForSupplierHerb(ctx, supplierID, item.HerbID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return decimal.Zero, pkgerrors.New(pkgerrors.CodeStateConflict, "supplier does not stock every required herb").
					WithDetails(map[string]any{"herb_id": item.HerbID})
			}
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier inventory")
		}
		if stock.QuantityAvailable.LessThan(item.TotalQuantity) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeStateConflict, "supplier inventory is insufficient for required quantity").
				WithDetails(map[string]any{
					"herb_id":   item.HerbID,
					"required":  item.TotalQuantity,
					"available": stock.QuantityAvailable,
				})
		}
		total = total.Add(stock.PricePerGram.Mul(item.TotalQuantity))
	}
	return total.Round(2), nil
}

func stateConflict[T fmt.Stringer](current, required T) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "operation not allowed in current status").
		WithDetails(map[string]any{
			"current":  current.String(),
			"required": required.String(),
		})
}

func appendNote(existing *string, note string) string {
	if existing == nil || strings.TrimSpace(*existing) == "" {
		return note
	}
	return *existing + "\n" + note
}
