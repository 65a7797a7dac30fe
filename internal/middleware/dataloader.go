package middleware

import (
	"context"
	"net/http"

	"github.com/smartpos/backoffice/internal/catalog"
	"github.com/smartpos/backoffice/internal/categoryloader"
)

type ctxKey string

const categoryLoaderKey ctxKey = "categoryLoader"

// CategoryLoaderMiddleware attaches a fresh per-request category loader to the
// request context so the batch window never outlives the request.
func CategoryLoaderMiddleware(categories catalog.CategoryStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := categoryloader.NewCategoryLoader(categories)

			ctx := context.WithValue(r.Context(), categoryLoaderKey, loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CategoryLoaderFromContext retrieves the loader from context
func CategoryLoaderFromContext(ctx context.Context) *categoryloader.CategoryLoader {
	if l, ok := ctx.Value(categoryLoaderKey).(*categoryloader.CategoryLoader); ok {
		return l
	}
	return nil
}
