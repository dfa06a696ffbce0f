package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"courierdesk/internal/logger"
	"courierdesk/internal/mw"
	"courierdesk/internal/service"
)

type Services struct {
	Orders  *service.OrderService
	Drivers *service.DriverService
	Cash    *service.CashService
	Stats   *service.StatsService
}

type RouterConfig struct {
	ActorSecret    string
	DefaultActor   string
	AllowedOrigins []string
	Location       *time.Location // for display dates
}

func NewRouter(svc Services, cfg RouterConfig, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders: []string{logger.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", HealthHandler(log))

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.ActorMiddleware(cfg.ActorSecret, cfg.DefaultActor))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ListOrdersHandler(svc.Orders, log))
			r.Post("/", CreateOrderHandler(svc.Orders, log))
			r.Patch("/", PatchOrderHandler(svc.Orders, log))
			r.Post("/{id}/assign", AssignDriverHandler(svc.Orders, log))
			r.Post("/{id}/status", AdvanceStatusHandler(svc.Orders, log))
			r.Post("/{id}/scan", ScanBarcodeHandler(svc.Orders, log))
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", ListDriversHandler(svc.Drivers, log))
			r.Patch("/", PatchDriverHandler(svc.Drivers, log))
			r.Post("/{id}/location", UpdateLocationHandler(svc.Drivers, log))
			r.Get("/{id}/tasks", DriverTasksHandler(svc.Drivers, svc.Orders, cfg.Location, log))
		})

		r.Route("/cash-collections", func(r chi.Router) {
			r.Get("/", ListCollectionsHandler(svc.Cash, log))
			r.Post("/", SubmitCollectionHandler(svc.Cash, log))
			r.Patch("/", PatchCollectionHandler(svc.Cash, log))
			r.Post("/{id}/approve", ApproveCollectionHandler(svc.Cash, log))
			r.Post("/{id}/reject", RejectCollectionHandler(svc.Cash, log))
		})

		r.Get("/stats", StatsHandler(svc.Stats, log))
		r.Get("/map/markers", MarkersHandler(svc.Stats, log))
	})

	return r
}
