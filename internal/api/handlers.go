package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/R0llcre/promotions/internal/logging"
	"github.com/R0llcre/promotions/internal/models"
	"github.com/R0llcre/promotions/internal/service"
)

// PromotionAPI is the slice of the service the handlers need. Tests
// substitute a stub.
type PromotionAPI interface {
	List(ctx context.Context, filters service.ListFilters) ([]*models.Promotion, error)
	Get(ctx context.Context, id int) (*models.Promotion, error)
	Create(ctx context.Context, p *models.Promotion) (*models.Promotion, error)
	Update(ctx context.Context, id int, p *models.Promotion) (*models.Promotion, error)
	Deactivate(ctx context.Context, id int) (*models.Promotion, error)
	Delete(ctx context.Context, id int) error
}

// RegisterHandlers mounts all routes on the router, plus the JSON
// not-found and method-not-allowed handlers.
func RegisterHandlers(router *mux.Router, svc PromotionAPI) {
	router.HandleFunc("/", indexHandler()).Methods("GET")
	router.HandleFunc("/health", healthHandler()).Methods("GET")
	router.HandleFunc("/promotions", listPromotionsHandler(svc)).Methods("GET")
	router.HandleFunc("/promotions", createPromotionHandler(svc)).Methods("POST")
	router.HandleFunc("/promotions/{id:[0-9]+}", getPromotionHandler(svc)).Methods("GET")
	router.HandleFunc("/promotions/{id:[0-9]+}", updatePromotionHandler(svc)).Methods("PUT")
	router.HandleFunc("/promotions/{id:[0-9]+}/deactivate", deactivatePromotionHandler(svc)).Methods("PUT")
	router.HandleFunc("/promotions/{id:[0-9]+}", deletePromotionHandler(svc)).Methods("DELETE")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "resource not found")
	})
	router.MethodNotAllowedHandler = methodNotAllowedHandler(router)
}

type serviceInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Paths       map[string]string `json:"paths"`
}

func indexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, serviceInfo{
			Name:        "Promotions Service",
			Version:     "1.0.0",
			Description: "RESTful service for managing promotions",
			Paths:       map[string]string{"promotions": "/promotions"},
		})
	}
}

// healthHandler answers the liveness probe without touching storage.
func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}
}

func listPromotionsHandler(svc PromotionAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filters := service.ListFilters{
			ID:            query.Get("id"),
			Name:          query.Get("name"),
			ProductID:     query.Get("product_id"),
			PromotionType: query.Get("promotion_type"),
		}
		// Presence matters for active: "?active=" must be rejected, not
		// treated as no filter.
		if _, present := query["active"]; present {
			value := query.Get("active")
			filters.Active = &value
		}

		promotions, err := svc.List(r.Context(), filters)
		if err != nil {
			writeServiceError(w, err, "resource not found")
			return
		}
		writeJSON(w, http.StatusOK, promotions)
	}
}

func getPromotionHandler(svc PromotionAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		promotion, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, notFoundMessage(id))
			return
		}
		writeJSON(w, http.StatusOK, promotion)
	}
}

func createPromotionHandler(svc PromotionAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireJSON(w, r) {
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read request body")
			return
		}

		var promotion models.Promotion
		if err := promotion.Deserialize(body); err != nil {
			writeServiceError(w, err, "")
			return
		}

		created, err := svc.Create(r.Context(), &promotion)
		if err != nil {
			writeServiceError(w, err, "")
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/promotions/%d", created.ID))
		writeJSON(w, http.StatusCreated, created)
	}
}

func updatePromotionHandler(svc PromotionAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireJSON(w, r) {
			return
		}
		id := pathID(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read request body")
			return
		}

		if mismatch := bodyIDMismatch(body, id); mismatch {
			writeError(w, http.StatusBadRequest, "ID in body must match resource path")
			return
		}

		var promotion models.Promotion
		if err := promotion.Deserialize(body); err != nil {
			writeServiceError(w, err, "")
			return
		}

		updated, err := svc.Update(r.Context(), id, &promotion)
		if err != nil {
			writeServiceError(w, err, notFoundMessage(id))
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deactivatePromotionHandler(svc PromotionAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		promotion, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, notFoundMessage(id))
			return
		}
		writeJSON(w, http.StatusOK, promotion)
	}
}

func deletePromotionHandler(svc PromotionAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if err := svc.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err, notFoundMessage(id))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// pathID reads the {id} route variable. The route pattern restricts it
// to digits, so Atoi cannot fail here.
func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func notFoundMessage(id int) string {
	return fmt.Sprintf("Promotion with id '%d' was not found.", id)
}

// requireJSON enforces Content-Type: application/json on body-carrying
// requests, answering 415 otherwise.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil || media != "application/json" {
		got := contentType
		if got == "" {
			got = "none"
		}
		logging.Logger.Warn("Unsupported media type", zap.String("content_type", got))
		writeError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("Content-Type must be application/json; received %s", got))
		return false
	}
	return true
}

// bodyIDMismatch reports whether the body carries an id that disagrees
// with the path id. A body without an id is fine; the path id wins.
// A malformed body is left for Deserialize to report.
func bodyIDMismatch(body []byte, pathID int) bool {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || len(probe.ID) == 0 {
		return false
	}
	bodyID := strings.Trim(strings.TrimSpace(string(probe.ID)), `"`)
	return bodyID != strconv.Itoa(pathID)
}

// methodNotAllowedHandler answers 405 with the envelope and advertises
// the methods the matched path does support via the Allow header.
func methodNotAllowedHandler(router *mux.Router) http.Handler {
	candidates := []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range candidates {
			probe := r.Clone(r.Context())
			probe.Method = method
			var match mux.RouteMatch
			if router.Match(probe, &match) && match.MatchErr == nil {
				allowed = append(allowed, method)
			}
		}
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		writeError(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("method %s is not allowed for this resource", r.Method))
	})
}
