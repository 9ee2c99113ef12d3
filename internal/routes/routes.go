package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/handlers"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/metrics"
	appmw "github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/middleware"
)

func NewRoutes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Post("/api/auth/register", handlers.RegisterHandler)
	r.Post("/api/auth/login", handlers.LoginHandler)

	r.Get("/api/products", handlers.ProductsHandler)

	r.With(appmw.Authenticated).Get("/api/dashboard", handlers.DashboardHandler)

	r.With(appmw.Authenticated).Post("/api/purchase/buy", handlers.BuyHandler)

	r.Handle("/metrics", metrics.Handler())

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
