// Package httpapi exposes the catalog over a JSON REST API.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/smartpos/backoffice/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses: validation 400,
// not-found 404, conflict 409, everything else a logged 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validation.Message})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFound.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found."})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": conflict.Message})
	default:
		log.Printf("[http] internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error."})
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Validationf("Invalid JSON body: %v", err)
	}
	return nil
}
