package controllers

import (
	"net/http"

	"github.com/herblink/herblink-backend/api/responses"
	"github.com/herblink/herblink-backend/internal/herbs"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
	"github.com/herblink/herblink-backend/pkg/logger"
)

// ListHerbs returns the shared herb catalogue, ordered by name.
func ListHerbs(svc herbs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "herbs service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]herbView, 0, len(rows))
		for i := range rows {
			items = append(items, *herbToView(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}
