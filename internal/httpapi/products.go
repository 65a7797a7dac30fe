package httpapi

import (
	"context"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smartpos/backoffice/internal/auth"
	"github.com/smartpos/backoffice/internal/catalog"
	"github.com/smartpos/backoffice/internal/domain"
	"github.com/smartpos/backoffice/internal/middleware"
	"github.com/smartpos/backoffice/internal/repository"
)

// ProductSearcher narrows product listings by search text, category, or stock
// level.
type ProductSearcher interface {
	Search(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
}

type ProductHandler struct {
	service  *catalog.ProductService
	searcher ProductSearcher
	exporter *catalog.Exporter
}

func NewProductHandler(service *catalog.ProductService, searcher ProductSearcher, exporter *catalog.Exporter) *ProductHandler {
	return &ProductHandler{service: service, searcher: searcher, exporter: exporter}
}

// categoryRef is the populated category reference embedded in product
// responses.
type categoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// productView overrides the raw category id with the populated reference.
type productView struct {
	*domain.Product
	Category *categoryRef `json:"category"`
}

func (h *ProductHandler) view(ctx context.Context, product *domain.Product) productView {
	view := productView{Product: product}
	loader := middleware.CategoryLoaderFromContext(ctx)
	if loader == nil || product.CategoryID == uuid.Nil {
		return view
	}
	category, err := loader.Get(ctx, product.CategoryID)
	if err != nil {
		log.Printf("[http] resolve category %s: %v", product.CategoryID, err)
		return view
	}
	if category != nil {
		view.Category = &categoryRef{ID: category.ID, Name: category.Name, Code: category.Code}
	}
	return view
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		LowStock: r.URL.Query().Get("lowStock") == "true",
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, domain.Validationf("Invalid category filter."))
			return
		}
		filter.CategoryID = id
	}

	products, err := h.searcher.Search(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, h.view(r.Context(), product))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r.Context(), product))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var raw catalog.RawInput
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, err)
		return
	}
	actor := auth.ActorFromContext(r.Context())
	product, err := h.service.Create(r.Context(), raw, actor.DisplayName())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(r.Context(), product))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var raw catalog.RawInput
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, err)
		return
	}
	note, _ := raw["versionNote"].(string)
	delete(raw, "versionNote")

	actor := auth.ActorFromContext(r.Context())
	product, err := h.service.Update(r.Context(), id, raw, actor.DisplayName(), note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r.Context(), product))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted."})
}

func (h *ProductHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actor := auth.ActorFromContext(r.Context())
	product, err := h.service.Publish(r.Context(), id, actor.DisplayName(), "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r.Context(), product))
}

func (h *ProductHandler) Versions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	versions, err := h.service.ListVersions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *ProductHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	version, err := pathVersion(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actor := auth.ActorFromContext(r.Context())
	product, err := h.service.Rollback(r.Context(), id, version, actor.DisplayName())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r.Context(), product))
}

func (h *ProductHandler) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Products []catalog.RawInput `json:"products"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if len(body.Products) == 0 {
		writeError(w, domain.Validationf("products must be a non-empty array."))
		return
	}
	actor := auth.ActorFromContext(r.Context())
	summary, err := h.service.BulkUpsert(r.Context(), body.Products, actor.DisplayName(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	fileName, data, overwrite, err := readImportForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actor := auth.ActorFromContext(r.Context())
	summary, err := h.service.ImportFile(r.Context(), fileName, data, actor.DisplayName(), actor, overwrite)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ProductHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.ProductsCSV(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, "products.csv", csvContentType, data)
}

func (h *ProductHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.ProductsXLSX(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, "products.xlsx", xlsxContentType, data)
}

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.Validationf("Invalid id.")
	}
	return id, nil
}

func pathVersion(r *http.Request) (int, error) {
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		return 0, domain.Validationf("Invalid version number.")
	}
	return version, nil
}

func writeAttachment(w http.ResponseWriter, fileName, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func readImportForm(r *http.Request) (string, []byte, bool, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, false, domain.Validationf("Invalid form data: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, false, domain.Validationf("A file is required.")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, false, domain.Validationf("Failed to read file: %v", err)
	}
	overwrite := r.FormValue("overwrite") == "true"
	return header.Filename, data, overwrite, nil
}
