package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/herblink/herblink-backend/api/middleware"
	"github.com/herblink/herblink-backend/api/responses"
	"github.com/herblink/herblink-backend/api/validators"
	"github.com/herblink/herblink-backend/internal/orders"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
	"github.com/herblink/herblink-backend/pkg/logger"
)

// ListSupplierOrders pages the supplier's own orders, newest first.
func ListSupplierOrders(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListForSupplier(r.Context(), middleware.ActorUUID(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier orders"))
			return
		}
		responses.WriteSuccess(w, ordersToPage(list.Orders, list.NextCursor))
	}
}

// GetSupplierOrder returns one order with its prescription detail, scoped to
// the calling supplier.
func GetSupplierOrder(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := repo.FindForSupplier(r.Context(), orderID, middleware.ActorUUID(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, notFoundOrDependency(err, "order not found", "fetch order"))
			return
		}
		responses.WriteSuccess(w, orderToView(found))
	}
}

// ListPractitionerOrders pages orders placed over the practitioner's
// prescriptions.
func ListPractitionerOrders(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListForPractitioner(r.Context(), middleware.ActorUUID(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list practitioner orders"))
			return
		}
		responses.WriteSuccess(w, ordersToPage(list.Orders, list.NextCursor))
	}
}
