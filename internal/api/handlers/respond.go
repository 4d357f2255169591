package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"go.uber.org/zap"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// decodeRequest reads a JSON body into req and runs its validate tags.
func decodeRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	if !decodeJSON(w, r, req) {
		return false
	}
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			http.Error(w, "Invalid field "+fieldErrs[0].Field()+": "+fieldErrs[0].Tag(), http.StatusBadRequest)
			return false
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func chiParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// optionalIntQuery returns nil when the query parameter is absent.
func optionalIntQuery(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return nil, false
	}
	return &n, true
}

func pageQuery(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

// writeServiceError maps domain and service errors onto status codes. Anything
// unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrCubeNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrCubeEntryNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, carddb.ErrCardNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInsufficientCards):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logger.Errorw("request failed", "op", op, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
