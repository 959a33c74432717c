package handler

import (
	"github.com/careerbuddy/careerbuddy/internal/middleware"
	"github.com/careerbuddy/careerbuddy/internal/repository"
	"github.com/careerbuddy/careerbuddy/internal/token"
	"github.com/gorilla/mux"
)

// NewRouter wires the REST surface: public auth routes plus a protected
// subrouter guarded by the bearer-token middleware.
func NewRouter(h *Handler, tokens *token.Service, repo *repository.Repository) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/", h.Health).Methods("GET")
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/token", h.Login).Methods("POST")

	// Protected routes
	authed := r.PathPrefix("/").Subrouter()
	authed.Use(middleware.Auth(tokens, repo))
	authed.HandleFunc("/jobs", h.CreateJob).Methods("POST")
	authed.HandleFunc("/jobs", h.ListJobs).Methods("GET")
	authed.HandleFunc("/jobs/{id:[0-9]+}", h.UpdateJob).Methods("PUT")
	authed.HandleFunc("/jobs/{id:[0-9]+}", h.DeleteJob).Methods("DELETE")
	authed.HandleFunc("/applications", h.CreateApplication).Methods("POST")
	authed.HandleFunc("/applications", h.ListApplications).Methods("GET")
	authed.HandleFunc("/applications/{id:[0-9]+}", h.UpdateApplication).Methods("PUT")
	authed.HandleFunc("/applications/{id:[0-9]+}", h.DeleteApplication).Methods("DELETE")
	authed.HandleFunc("/redirect/{id:[0-9]+}", h.Redirect).Methods("GET")

	return r
}
