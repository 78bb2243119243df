package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herblink/herblink-backend/api/middleware"
	"github.com/herblink/herblink-backend/api/responses"
	"github.com/herblink/herblink-backend/api/validators"
	"github.com/herblink/herblink-backend/internal/inventory"
	"github.com/herblink/herblink-backend/pkg/enums"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
	"github.com/herblink/herblink-backend/pkg/logger"
)

type upsertInventoryRequest struct {
	HerbID            *uuid.UUID      `json:"herb_id"`
	HerbName          string          `json:"herb_name"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	PricePerGram      decimal.Decimal `json:"price_per_gram"`
	QualityGrade      string          `json:"quality_grade" validate:"omitempty,oneof=A B C"`
	ExpiryDate        *string         `json:"expiry_date"`
}

// ListInventory returns the calling supplier's stock joined with herb names.
func ListInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID := middleware.ActorUUID(r.Context())

		rows, err := svc.List(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]inventoryView, 0, len(rows))
		for i := range rows {
			items = append(items, *inventoryToView(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

// UpsertInventory creates or replaces the supplier's listing for one herb.
func UpsertInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertInventoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expiry, err := parseDate(req.ExpiryDate, "expiry_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventory.UpsertInput{
			SupplierID:        middleware.ActorUUID(r.Context()),
			HerbID:            req.HerbID,
			HerbName:          validators.SanitizeString(req.HerbName, 255),
			QuantityAvailable: req.QuantityAvailable,
			PricePerGram:      req.PricePerGram,
			QualityGrade:      enums.QualityGrade(req.QualityGrade),
			ExpiryDate:        expiry,
		}

		entry, err := svc.Upsert(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventoryToView(entry))
	}
}

// DeleteInventory removes one of the supplier's own listings.
func DeleteInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, err := validators.ParsePathUUID(chi.URLParam(r, "entryId"), "entryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.ActorUUID(r.Context()), entryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// parseDate reads a YYYY-MM-DD value. Nil or blank input stays nil.
func parseDate(raw *string, field string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD").WithDetails(map[string]any{"field": field})
	}
	return &parsed, nil
}
