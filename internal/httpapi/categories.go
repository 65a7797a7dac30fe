package httpapi

import (
	"net/http"

	"github.com/smartpos/backoffice/internal/auth"
	"github.com/smartpos/backoffice/internal/catalog"
	"github.com/smartpos/backoffice/internal/domain"
)

type CategoryHandler struct {
	service  *catalog.CategoryService
	exporter *catalog.Exporter
}

func NewCategoryHandler(service *catalog.CategoryService, exporter *catalog.Exporter) *CategoryHandler {
	return &CategoryHandler{service: service, exporter: exporter}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var raw catalog.RawInput
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, err)
		return
	}
	actor := auth.ActorFromContext(r.Context())
	category, err := h.service.Create(r.Context(), raw, actor.DisplayName())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	category, err := h.service.Update(r.Context(), id, raw, actor.DisplayName(), note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted."})
}

func (h *CategoryHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actor := auth.ActorFromContext(r.Context())
	category, err := h.service.Publish(r.Context(), id, actor.DisplayName(), "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Versions(w http.ResponseWriter, r *http.Request) {
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

func (h *CategoryHandler) Rollback(w http.ResponseWriter, r *http.Request) {
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
	category, err := h.service.Rollback(r.Context(), id, version, actor.DisplayName())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Categories []catalog.RawInput `json:"categories"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if len(body.Categories) == 0 {
		writeError(w, domain.Validationf("categories must be a non-empty array."))
		return
	}
	actor := auth.ActorFromContext(r.Context())
	summary, err := h.service.BulkUpsert(r.Context(), body.Categories, actor.DisplayName(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *CategoryHandler) Import(w http.ResponseWriter, r *http.Request) {
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

func (h *CategoryHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.CategoriesCSV(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, "categories.csv", csvContentType, data)
}

func (h *CategoryHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.CategoriesXLSX(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, "categories.xlsx", xlsxContentType, data)
}
