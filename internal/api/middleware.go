package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/R0llcre/promotions/internal/logging"
)

// Recover converts handler panics into the standard 500 envelope so an
// unexpected failure never leaks a stack trace to the client.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Logger.Error("Panic recovered",
					zap.Any("panic", rec), zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
