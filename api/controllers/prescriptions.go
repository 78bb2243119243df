package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/herblink/herblink-backend/api/middleware"
	"github.com/herblink/herblink-backend/api/responses"
	"github.com/herblink/herblink-backend/api/validators"
	"github.com/herblink/herblink-backend/internal/matching"
	"github.com/herblink/herblink-backend/internal/prescriptions"
	"github.com/herblink/herblink-backend/pkg/logger"
	"github.com/herblink/herblink-backend/pkg/pagination"
)

type createPrescriptionItemRequest struct {
	HerbName        string          `json:"herb_name" validate:"required"`
	QuantityPerDose decimal.Decimal `json:"quantity_per_dose"`
	Notes           *string         `json:"notes"`
}

type createPrescriptionRequest struct {
	PatientName    string                          `json:"patient_name" validate:"required"`
	PatientPhone   *string                         `json:"patient_phone"`
	PatientAddress *string                         `json:"patient_address"`
	PatientDOB     *string                         `json:"patient_dob"`
	Symptoms       *string                         `json:"symptoms"`
	Diagnosis      *string                         `json:"diagnosis"`
	TreatmentDays  int                             `json:"treatment_days" validate:"required,min=1"`
	DosesPerDay    int                             `json:"doses_per_day" validate:"omitempty,min=1"`
	Notes          *string                         `json:"notes"`
	Items          []createPrescriptionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreatePrescription writes a prescription with derived per-item totals.
func CreatePrescription(svc prescriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPrescriptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dob, err := parseDate(req.PatientDOB, "patient_dob")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]prescriptions.CreateItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, prescriptions.CreateItemInput{
				HerbName:        validators.SanitizeString(item.HerbName, 255),
				QuantityPerDose: item.QuantityPerDose,
				Notes:           item.Notes,
			})
		}

		input := prescriptions.CreateInput{
			PractitionerID: middleware.ActorUUID(r.Context()),
			PatientName:    validators.SanitizeString(req.PatientName, 255),
			PatientPhone:   req.PatientPhone,
			PatientAddress: req.PatientAddress,
			PatientDOB:     dob,
			Symptoms:       req.Symptoms,
			Diagnosis:      req.Diagnosis,
			TreatmentDays:  req.TreatmentDays,
			DosesPerDay:    req.DosesPerDay,
			Notes:          req.Notes,
			Items:          items,
		}

		created, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, prescriptionToView(created))
	}
}

// ListMyPrescriptions pages the practitioner's own prescriptions.
func ListMyPrescriptions(svc prescriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForPractitioner(r.Context(), middleware.ActorUUID(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prescriptionsToPage(list.Prescriptions, list.NextCursor))
	}
}

// GetPrescription returns one prescription the practitioner owns.
func GetPrescription(svc prescriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID, err := validators.ParsePathUUID(chi.URLParam(r, "prescriptionId"), "prescriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetForPractitioner(r.Context(), middleware.ActorUUID(r.Context()), prescriptionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prescriptionToView(found))
	}
}

// PendingPrescriptionFeed pages unclaimed prescriptions for suppliers.
func PendingPrescriptionFeed(svc prescriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListPendingFeed(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prescriptionsToPage(list.Prescriptions, list.NextCursor))
	}
}

// FindSuppliers runs the all-or-nothing match for one prescription.
// The sort query parameter accepts name, price or grade.
func FindSuppliers(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID, err := validators.ParsePathUUID(chi.URLParam(r, "prescriptionId"), "prescriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sortBy := matching.ParseSortBy(validators.ParseQueryString(r, "sort", ""))

		matches, err := svc.FindSuppliers(r.Context(), middleware.ActorUUID(r.Context()), prescriptionID, sortBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, matches)
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
