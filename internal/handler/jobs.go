package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/careerbuddy/careerbuddy/internal/models"
	"github.com/careerbuddy/careerbuddy/internal/repository"
)

type jobCreateRequest struct {
	Title       string     `json:"title" validate:"required"`
	Company     string     `json:"company" validate:"required"`
	Location    *string    `json:"location"`
	URL         *string    `json:"url"`
	Notes       *string    `json:"notes"`
	Category    *string    `json:"category"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	Deadline    *time.Time `json:"deadline"`
	SalaryRange *string    `json:"salary_range"`
}

type jobUpdateRequest struct {
	Title       *string    `json:"title"`
	Company     *string    `json:"company"`
	Location    *string    `json:"location"`
	URL         *string    `json:"url"`
	Notes       *string    `json:"notes"`
	Category    *string    `json:"category"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	Deadline    *time.Time `json:"deadline"`
	SalaryRange *string    `json:"salary_range"`
}

// CreateJob adds a posting to the shared catalog
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobCreateRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	job := &models.Job{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		URL:         req.URL,
		Notes:       req.Notes,
		Category:    req.Category,
		Priority:    models.Priority(req.Priority),
		Deadline:    req.Deadline,
		SalaryRange: req.SalaryRange,
	}
	if err := h.svc.CreateJob(job); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// ListJobs returns the filtered, paginated catalog
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "skip must be an integer")
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	q := r.URL.Query()
	jobs, err := h.svc.ListJobs(repository.ListJobsOptions{
		Skip:     skip,
		Limit:    limit,
		Category: q.Get("category"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// UpdateJob applies a sparse patch; omitted fields keep their stored values
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	var req jobUpdateRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := &models.JobPatch{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		URL:         req.URL,
		Notes:       req.Notes,
		Category:    req.Category,
		Deadline:    req.Deadline,
		SalaryRange: req.SalaryRange,
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		patch.Priority = &p
	}

	job, err := h.svc.UpdateJob(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// DeleteJob removes a posting along with every application against it
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid job id")
		return
	}
	if err := h.svc.DeleteJob(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Redirect sends the caller to the posting's external URL
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid job id")
		return
	}
	job, err := h.svc.GetJob(id)
	if errors.Is(err, models.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Job or URL not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if job.URL == nil || *job.URL == "" {
		writeDetail(w, http.StatusNotFound, "Job or URL not found")
		return
	}
	http.Redirect(w, r, *job.URL, http.StatusFound)
}
