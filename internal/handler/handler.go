package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/careerbuddy/careerbuddy/internal/models"
	"github.com/careerbuddy/careerbuddy/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validate
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps sentinel errors onto the HTTP taxonomy. Ownership
// failures arrive here as ErrNotFound already, so another user's record is
// indistinguishable from a missing one.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrDuplicateEmail):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeValid decodes a JSON body into v and runs struct validation
func (h *Handler) decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// queryInt parses an integer query parameter with a default for absence
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
