package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/herblink/herblink-backend/api/middleware"
	"github.com/herblink/herblink-backend/api/responses"
	"github.com/herblink/herblink-backend/api/validators"
	"github.com/herblink/herblink-backend/internal/lifecycle"
	"github.com/herblink/herblink-backend/pkg/logger"
)

type claimPrescriptionRequest struct {
	Notes *string `json:"notes"`
}

type selectSupplierRequest struct {
	SupplierID uuid.UUID `json:"supplier_id" validate:"required"`
	Notes      *string   `json:"notes"`
}

type cancellationReasonRequest struct {
	Reason string `json:"reason"`
}

// ClaimPrescription lets a supplier take a pending prescription directly,
// creating an already-accepted order.
func ClaimPrescription(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID, err := validators.ParsePathUUID(chi.URLParam(r, "prescriptionId"), "prescriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req claimPrescriptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ClaimPrescription(r.Context(), lifecycle.ClaimInput{
			SupplierID:     middleware.ActorUUID(r.Context()),
			PrescriptionID: prescriptionID,
			Notes:          req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resultToView(result))
	}
}

// SelectSupplier routes a pending prescription to a chosen supplier for
// confirmation.
func SelectSupplier(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID, err := validators.ParsePathUUID(chi.URLParam(r, "prescriptionId"), "prescriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req selectSupplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SelectSupplier(r.Context(), lifecycle.SelectSupplierInput{
			PractitionerID: middleware.ActorUUID(r.Context()),
			PrescriptionID: prescriptionID,
			SupplierID:     req.SupplierID,
			Notes:          req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resultToView(result))
	}
}

// CancelPrescription deletes a prescription before any supplier committed.
func CancelPrescription(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID, err := validators.ParsePathUUID(chi.URLParam(r, "prescriptionId"), "prescriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CancelPrescription(r.Context(), lifecycle.CancelPrescriptionInput{
			PractitionerID: middleware.ActorUUID(r.Context()),
			PrescriptionID: prescriptionID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

// AcceptOrder confirms an order the practitioner routed to this supplier.
func AcceptOrder(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.AcceptOrder, logg)
}

// RejectOrder declines the order and returns the prescription to the pool.
func RejectOrder(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.RejectOrder, logg)
}

// AdvanceOrder moves the order one step along the fulfillment chain.
func AdvanceOrder(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.AdvanceOrder, logg)
}

// RevertOrder steps the order back to the previous fulfillment status.
func RevertOrder(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.RevertOrder, logg)
}

// CompleteOrder closes out a delivered order.
func CompleteOrder(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.CompleteOrder, logg)
}

// RequestCancellation records the supplier's ask to abandon an in-flight
// order; the practitioner answers through the approve/deny cycle.
func RequestCancellation(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancellationReasonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RequestCancellation(r.Context(), lifecycle.CancellationRequestInput{
			SupplierID: middleware.ActorUUID(r.Context()),
			OrderID:    orderID,
			Reason:     req.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resultToView(result))
	}
}

// ApproveCancellation grants the pending request, deleting the order and
// releasing the prescription.
func ApproveCancellation(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ApproveCancellation(r.Context(), lifecycle.CancellationDecisionInput{
			PractitionerID: middleware.ActorUUID(r.Context()),
			OrderID:        orderID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resultToView(result))
	}
}

// DenyCancellation refuses the pending request with a reason and resumes
// fulfillment.
func DenyCancellation(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancellationReasonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DenyCancellation(r.Context(), lifecycle.CancellationDecisionInput{
			PractitionerID: middleware.ActorUUID(r.Context()),
			OrderID:        orderID,
			Reason:         req.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resultToView(result))
	}
}

type orderActionFn func(ctx context.Context, input lifecycle.OrderActionInput) (*lifecycle.TransitionResult, error)

func orderAction(action orderActionFn, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := action(r.Context(), lifecycle.OrderActionInput{
			SupplierID: middleware.ActorUUID(r.Context()),
			OrderID:    orderID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resultToView(result))
	}
}

func resultToView(result *lifecycle.TransitionResult) *transitionView {
	if result == nil {
		return nil
	}
	return &transitionView{
		Order:        orderToView(result.Order),
		Prescription: prescriptionToView(result.Prescription),
	}
}
