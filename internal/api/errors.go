package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/R0llcre/promotions/internal/logging"
	"github.com/R0llcre/promotions/internal/models"
)

// errorResponse is the single envelope every error uses.
type errorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Short titles per status, advertised in the envelope's "error" field.
var statusTitles = map[int]string{
	http.StatusBadRequest:           "Bad Request",
	http.StatusNotFound:             "Not Found",
	http.StatusMethodNotAllowed:     "Method Not Allowed",
	http.StatusUnsupportedMediaType: "Unsupported Media Type",
	http.StatusInternalServerError:  "Internal Server Error",
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Status:  status,
		Error:   statusTitles[status],
		Message: message,
	})
}

// writeServiceError maps an error kind from the lower layers onto a
// status code. notFoundMessage customizes the 404 detail so it can name
// the id the client asked for.
func writeServiceError(w http.ResponseWriter, err error, notFoundMessage string) {
	var validationErr *models.ValidationError
	var databaseErr *models.DatabaseError
	switch {
	case errors.As(err, &validationErr):
		logging.Logger.Warn("Bad request", zap.String("reason", validationErr.Message))
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage)
	case errors.As(err, &databaseErr):
		// Detail stays in the logs; clients get a generic message.
		logging.Logger.Error("Database error", zap.Error(databaseErr))
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	default:
		logging.Logger.Error("Unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
