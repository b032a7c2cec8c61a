package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/jobtracker/internal/metrics"
	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
)

type ApplicationsHandler struct {
	repo repository.ApplicationRepo
}

func NewApplicationsHandler(repo repository.ApplicationRepo) *ApplicationsHandler {
	return &ApplicationsHandler{repo: repo}
}

// RegisterApplicationRoutes mounts the application endpoints on r.
func RegisterApplicationRoutes(r *mux.Router, h *ApplicationsHandler) {
	r.HandleFunc("/applications", h.ListApplications).Methods(http.MethodGet)
	r.HandleFunc("/applications", h.CreateApplication).Methods(http.MethodPost)
	r.HandleFunc("/applications/status_counts", h.StatusCounts).Methods(http.MethodGet)
	r.HandleFunc("/applications/{id:[0-9]+}", h.UpdateApplication).Methods(http.MethodPut)
	r.HandleFunc("/applications/{id:[0-9]+}", h.DeleteApplication).Methods(http.MethodDelete)
}

func (h *ApplicationsHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.repo.ListApplications(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if apps == nil {
		apps = []models.JobApplication{}
	}

	writeJSON(w, apps, http.StatusOK)
}

func (h *ApplicationsHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	a, err := decodeApplication(w, r, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.repo.CreateApplication(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.ID = id
	metrics.RecordMutation(metrics.OpCreate)

	writeJSON(w, a, http.StatusCreated)
}

// UpdateApplication replaces every mutable field; optional fields missing
// from the body are reset to the empty string.
func (h *ApplicationsHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(mux.Vars(r)["id"]))
		return
	}

	// unknown ids are reported before the body is looked at
	existing, err := h.repo.GetApplication(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if existing == nil {
		writeError(w, r, notFound(strconv.FormatInt(id, 10)))
		return
	}

	a, err := decodeApplication(w, r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.repo.UpdateApplication(r.Context(), a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = notFound(strconv.FormatInt(id, 10))
		}
		writeError(w, r, err)
		return
	}
	metrics.RecordMutation(metrics.OpUpdate)

	writeJSON(w, a, http.StatusOK)
}

func (h *ApplicationsHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(mux.Vars(r)["id"]))
		return
	}

	if err := h.repo.DeleteApplication(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = notFound(strconv.FormatInt(id, 10))
		}
		writeError(w, r, err)
		return
	}
	metrics.RecordMutation(metrics.OpDelete)

	w.WriteHeader(http.StatusNoContent)
}

func (h *ApplicationsHandler) StatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.CountByStatus(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if counts == nil {
		counts = models.StatusCounts{}
	}

	writeJSON(w, counts, http.StatusOK)
}

// pathID reads the {id} route variable. Values that overflow int64 cannot
// name a stored record.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
