package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/herblink/herblink-backend/api/controllers"
	"github.com/herblink/herblink-backend/api/middleware"
	"github.com/herblink/herblink-backend/internal/herbs"
	"github.com/herblink/herblink-backend/internal/inventory"
	"github.com/herblink/herblink-backend/internal/lifecycle"
	"github.com/herblink/herblink-backend/internal/matching"
	"github.com/herblink/herblink-backend/internal/orders"
	"github.com/herblink/herblink-backend/internal/prescriptions"
	"github.com/herblink/herblink-backend/pkg/config"
	"github.com/herblink/herblink-backend/pkg/db"
	"github.com/herblink/herblink-backend/pkg/enums"
	"github.com/herblink/herblink-backend/pkg/logger"
	"github.com/herblink/herblink-backend/pkg/redis"
)

// Deps bundles everything the router needs; cmd/api builds one per process.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Registry      *prometheus.Registry
	Herbs         herbs.Service
	Prescriptions prescriptions.Service
	Inventory     inventory.Service
	Lifecycle     lifecycle.Service
	Matching      matching.Service
	Orders        orders.Repository
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		// the nil check must happen on the concrete type; a nil *redis.Client
		// boxed into the middleware interfaces would not compare as nil
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
			r.Use(middleware.WriteRateLimit(deps.Redis, cfg.RateLimit.WriteLimit, cfg.RateLimit.WriteWindow, logg))
		}

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/herbs", controllers.ListHerbs(deps.Herbs, logg))

		r.Route("/practitioner", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRolePractitioner), logg))

			r.Route("/prescriptions", func(r chi.Router) {
				r.Post("/", controllers.CreatePrescription(deps.Prescriptions, logg))
				r.Get("/", controllers.ListMyPrescriptions(deps.Prescriptions, logg))
				r.Get("/{prescriptionId}", controllers.GetPrescription(deps.Prescriptions, logg))
				r.Get("/{prescriptionId}/matches", controllers.FindSuppliers(deps.Matching, logg))
				r.Post("/{prescriptionId}/select-supplier", controllers.SelectSupplier(deps.Lifecycle, logg))
				r.Post("/{prescriptionId}/cancel", controllers.CancelPrescription(deps.Lifecycle, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListPractitionerOrders(deps.Orders, logg))
				r.Post("/{orderId}/cancellation/approve", controllers.ApproveCancellation(deps.Lifecycle, logg))
				r.Post("/{orderId}/cancellation/deny", controllers.DenyCancellation(deps.Lifecycle, logg))
			})
		})

		r.Route("/supplier", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleSupplier), logg))

			r.Route("/prescriptions", func(r chi.Router) {
				r.Get("/", controllers.PendingPrescriptionFeed(deps.Prescriptions, logg))
				r.Post("/{prescriptionId}/claim", controllers.ClaimPrescription(deps.Lifecycle, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListSupplierOrders(deps.Orders, logg))
				r.Get("/{orderId}", controllers.GetSupplierOrder(deps.Orders, logg))
				r.Post("/{orderId}/accept", controllers.AcceptOrder(deps.Lifecycle, logg))
				r.Post("/{orderId}/reject", controllers.RejectOrder(deps.Lifecycle, logg))
				r.Post("/{orderId}/advance", controllers.AdvanceOrder(deps.Lifecycle, logg))
				r.Post("/{orderId}/revert", controllers.RevertOrder(deps.Lifecycle, logg))
				r.Post("/{orderId}/complete", controllers.CompleteOrder(deps.Lifecycle, logg))
				r.Post("/{orderId}/cancellation-request", controllers.RequestCancellation(deps.Lifecycle, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.ListInventory(deps.Inventory, logg))
				r.Put("/", controllers.UpsertInventory(deps.Inventory, logg))
				r.Delete("/{entryId}", controllers.DeleteInventory(deps.Inventory, logg))
			})
		})
	})

	return r
}
