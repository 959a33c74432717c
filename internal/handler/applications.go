package handler

import (
	"net/http"
	"time"

	"github.com/careerbuddy/careerbuddy/internal/middleware"
	"github.com/careerbuddy/careerbuddy/internal/models"
)

type applicationCreateRequest struct {
	JobID     int        `json:"job_id" validate:"required"`
	Status    string     `json:"status" validate:"omitempty,oneof=SAVED APPLIED INTERVIEW OFFER REJECTED"`
	AppliedAt *time.Time `json:"applied_at"`
}

type applicationUpdateRequest struct {
	Status    *string    `json:"status" validate:"omitempty,oneof=SAVED APPLIED INTERVIEW OFFER REJECTED"`
	AppliedAt *time.Time `json:"applied_at"`
}

// CreateApplication records an application owned by the authenticated caller.
// The owner always comes from the token, never from the request body.
func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req applicationCreateRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	app := &models.Application{
		JobID:     req.JobID,
		Status:    models.ApplicationStatus(req.Status),
		AppliedAt: req.AppliedAt,
	}
	if err := h.svc.CreateApplication(user, app); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// ListApplications returns the caller's own applications
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	apps, err := h.svc.ListApplications(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// UpdateApplication patches one of the caller's applications
func (h *Handler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid application id")
		return
	}

	var req applicationUpdateRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := &models.ApplicationPatch{AppliedAt: req.AppliedAt}
	if req.Status != nil {
		st := models.ApplicationStatus(*req.Status)
		patch.Status = &st
	}

	app, err := h.svc.UpdateApplication(user, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// DeleteApplication removes one of the caller's applications
func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid application id")
		return
	}
	if err := h.svc.DeleteApplication(user, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
