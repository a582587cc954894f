package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-finance-tracker/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router with every route of the API.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(h.withCORS)
	router.Use(withSecurityHeaders)
	router.Use(withGZip)

	// service routes
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
		r.Get("/metrics", metrics.Handler(h.gatherer).ServeHTTP)
		r.Get("/uploads/*", h.serveUploads().ServeHTTP)
	})

	// auth routes without authorization
	router.Group(func(r chi.Router) {
		r.Use(h.authLimiter.middleware)

		r.Post("/api/v1/auth/register", h.register)
		r.Post("/api/v1/auth/verify-email", h.verifyEmail)
		r.Post("/api/v1/auth/login", h.login)
		r.Post("/api/v1/auth/upload-image", h.uploadImage)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/v1/auth/getUser", h.getUser)

		r.Post("/api/v1/income/add", h.addEntry(incomeLedger))
		r.Get("/api/v1/income/get", h.listEntries(incomeLedger))
		r.Get("/api/v1/income/download", h.downloadEntries(incomeLedger))
		r.Delete("/api/v1/income/{id}", h.deleteEntry(incomeLedger))

		r.Post("/api/v1/expense/add", h.addEntry(expenseLedger))
		r.Get("/api/v1/expense/get", h.listEntries(expenseLedger))
		r.Get("/api/v1/expense/download", h.downloadEntries(expenseLedger))
		r.Delete("/api/v1/expense/{id}", h.deleteEntry(expenseLedger))
		r.Post("/api/v1/expense/parse-receipt", h.parseReceipt)

		r.Get("/api/v1/dashboard", h.getDashboard)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// serveUploads serves stored profile images. Directory listings are hidden.
func (h *Handler) serveUploads() http.Handler {
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploadsDir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
