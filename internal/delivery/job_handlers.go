package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/masa1724/pdf2image/internal/infra"
	"github.com/masa1724/pdf2image/internal/ports"
)

type JobHandler struct {
	jobs ports.JobRepo
	log  *logger.ZapLogger
}

func NewJobHandler(jobs ports.JobRepo, log *logger.ZapLogger) *JobHandler {
	return &JobHandler{
		jobs: jobs,
		log:  log,
	}
}

// GET /jobs?limit=N
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, 500)
	}

	jobs, err := h.jobs.ListRecent(r.Context(), limit)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "db error", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []ports.Job{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(jobs)
}

// GET /jobs/{job_id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")
	if id == "" {
		http.Error(w, "missing job_id", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.Get(r.Context(), id)
	if errors.Is(err, infra.ErrJobNotFound) {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "db error", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(job)
}
