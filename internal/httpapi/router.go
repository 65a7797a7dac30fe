package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/smartpos/backoffice/internal/auth"
	"github.com/smartpos/backoffice/internal/catalog"
	"github.com/smartpos/backoffice/internal/middleware"
)

// Deps bundles everything the router needs.
type Deps struct {
	Products      *catalog.ProductService
	Categories    *catalog.CategoryService
	Searcher      ProductSearcher
	Exporter      *catalog.Exporter
	Users         UserLister
	UserDirectory middleware.UserDirectory
	CategoryStore catalog.CategoryStore
}

// NewRouter assembles the REST API. Listings and single reads are open to
// every resolved actor; version history, exports, and writes sit behind the
// role permission gates.
func NewRouter(deps Deps) http.Handler {
	products := NewProductHandler(deps.Products, deps.Searcher, deps.Exporter)
	categories := NewCategoryHandler(deps.Categories, deps.Exporter)
	users := NewUserHandler(deps.Users)

	edit := middleware.RequirePermission(auth.PermContentEdit)
	remove := middleware.RequirePermission(auth.PermContentDelete)
	publish := middleware.RequirePermission(auth.PermContentPublish)
	importGate := middleware.RequirePermission(auth.PermContentImport)
	settings := middleware.RequirePermission(auth.PermSettingsView)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.ResolveActor(deps.UserDirectory))
	r.Use(middleware.CategoryLoaderMiddleware(deps.CategoryStore))

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.With(importGate).Get("/export/csv", products.ExportCSV)
		r.With(importGate).Get("/export/xlsx", products.ExportXLSX)
		r.With(importGate).Post("/bulk", products.BulkUpsert)
		r.With(importGate).Post("/import", products.Import)
		r.With(edit).Post("/", products.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", products.Get)
			r.With(settings).Get("/versions", products.Versions)
			r.With(edit).Put("/", products.Update)
			r.With(publish).Post("/rollback/{version}", products.Rollback)
			r.With(publish).Post("/publish", products.Publish)
			r.With(remove).Delete("/", products.Delete)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", categories.List)
		r.With(importGate).Get("/export/csv", categories.ExportCSV)
		r.With(importGate).Get("/export/xlsx", categories.ExportXLSX)
		r.With(importGate).Post("/bulk", categories.BulkUpsert)
		r.With(importGate).Post("/import", categories.Import)
		r.With(edit).Post("/", categories.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", categories.Get)
			r.With(settings).Get("/versions", categories.Versions)
			r.With(edit).Put("/", categories.Update)
			r.With(publish).Post("/rollback/{version}", categories.Rollback)
			r.With(publish).Post("/publish", categories.Publish)
			r.With(remove).Delete("/", categories.Delete)
		})
	})

	r.Get("/api/me", users.Session)
	r.With(settings).Get("/api/users", users.List)

	return r
}
