package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/warehouse-inventory/docs"
	"github.com/rogerio-castellano/warehouse-inventory/internal/http/handlers"
	mw "github.com/rogerio-castellano/warehouse-inventory/internal/http/middleware"
	rl "github.com/rogerio-castellano/warehouse-inventory/internal/http/rate_limiter"
)

type Deps struct {
	Products *handlers.ProductHandler
	Reports  *handlers.ReportHandler
	// Limiter is optional; nil disables rate limiting.
	Limiter rl.Limiter
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", deps.Products.HealthHandler)
	r.Get("/swag", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swag/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swag/*", httpSwagger.Handler(httpSwagger.URL("/swag/doc.json")))

	r.Group(func(r chi.Router) {
		if deps.Limiter != nil {
			r.Use(rl.Middleware(deps.Limiter))
		}

		r.Get("/products", deps.Products.GetProductsHandler)
		r.Post("/products", deps.Products.CreateProductHandler)
		r.Put("/products/{id}", deps.Products.UpdateProductHandler)
		r.Delete("/products/{id}", deps.Products.DeleteProductHandler)

		r.Get("/inventory-report", deps.Reports.InventoryReportHandler)
	})

	return r
}
