package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/metrics"
)

// NewRouter собирает маршруты /api/v1. httpMetrics может быть nil.
func NewRouter(l Ledger, httpMetrics *metrics.HTTPMetrics, logger *log.Entry) http.Handler {
	h := NewHandler(l, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(observe(httpMetrics, h.logger))

	router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, h)
		registerSaleRoutes(v1, h)
		v1.Get("/revenue", h.revenue)
		v1.Get("/categories", h.categories)
	})

	return router
}

func registerProductRoutes(router chi.Router, h *Handler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.addProduct)
		pr.Route("/{id}", func(item chi.Router) {
			item.Get("/", h.getProduct)
			item.Put("/", h.updateProduct)
			item.Delete("/", h.deleteProduct)
			item.Post("/sell", h.sellProduct)
		})
	})
}

func registerSaleRoutes(router chi.Router, h *Handler) {
	router.Route("/sales", func(sr chi.Router) {
		sr.Get("/", h.listSales)
		sr.Get("/{id}", h.getSale)
		sr.Post("/{id}/refund", h.refundSale)
	})
}

// observe пишет access-лог и метрики по шаблону маршрута.
func observe(httpMetrics *metrics.HTTPMetrics, logger *log.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			duration := time.Since(start)

			if httpMetrics != nil {
				httpMetrics.ObserveRequest(r.Method, route, status, duration)
			}
			logger.WithFields(log.Fields{
				"method":     r.Method,
				"route":      route,
				"status":     status,
				"duration":   duration.String(),
				"request_id": middleware.GetReqID(r.Context()),
			}).Debug("http request")
		})
	}
}
