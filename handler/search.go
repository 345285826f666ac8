package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lendingdesk/court-search-service/common"
	"github.com/lendingdesk/court-search-service/common/courtrecord"
	"github.com/lendingdesk/court-search-service/common/db"
	"github.com/lendingdesk/court-search-service/common/jobstore"
	"github.com/lendingdesk/court-search-service/common/messaging"
	"github.com/lendingdesk/court-search-service/common/models"
	"github.com/lendingdesk/court-search-service/common/services"
	"github.com/lendingdesk/court-search-service/common/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type SearchHandler struct {
	db     *db.DB
	broker *messaging.NatsBroker
	jobs   *jobstore.Store
	router *chi.Mux
}

func NewSearchHandler(db *db.DB, broker *messaging.NatsBroker) *SearchHandler {
	router := chi.NewRouter()

	h := &SearchHandler{
		db:     db,
		broker: broker,
		jobs:   jobstore.NewStore(db.Redis),
		router: router,
	}

	router.Post("/", h.handleRunSearch)
	router.Get("/history", h.handleHistory)
	router.Get("/{jobID}/status", h.handleJobStatus)
	router.Get("/{jobID}/results", h.handleJobResults)
	router.Get("/{jobID}/logs", h.handleJobLogs)

	return h
}

func (h *SearchHandler) Router() *chi.Mux {
	return h.router
}

func (h *SearchHandler) handleRunSearch(w http.ResponseWriter, r *http.Request) {
	var p SearchRunParams

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	criteria := courtrecord.SearchCriteria{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		MiddleName:   p.MiddleName,
		DateOfBirth:  p.DateOfBirth,
		Jurisdiction: p.Jurisdiction,
	}

	jobID := uuid.NewString()

	if err := h.jobs.Create(r.Context(), jobID); err != nil {
		log.Error().Err(err).Msg("Failed to create job in Redis")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create search job")
		return
	}

	jobRepo := services.NewSearchJobRepository(h.db)
	if err := jobRepo.Create(r.Context(), jobID, criteria); err != nil {
		log.Error().Err(err).Msg("Failed to persist search job")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create search job")
		return
	}

	msg := messaging.SearchRunMessage{
		JobID:    jobID,
		Criteria: criteria,
	}

	if err := messaging.PublishSearchRun(r.Context(), h.broker, msg); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to publish search request")
		if failErr := h.jobs.Fail(r.Context(), jobID, "failed to queue search"); failErr != nil {
			log.Error().Err(failErr).Str("job_id", jobID).Msg("Failed to mark job as failed")
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to queue search")
		return
	}

	utils.WriteJSON(w, http.StatusAccepted, models.JobStatusResponse{
		JobID:  jobID,
		Status: models.JobStatusRunning,
	})
}

func (h *SearchHandler) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := h.jobs.Get(r.Context(), jobID)
	if err == nil {
		utils.WriteJSON(w, http.StatusOK, models.JobStatusResponse{
			JobID:   job.JobID,
			Status:  job.Status,
			Message: job.Message,
			Error:   job.Error,
		})
		return
	}
	if !errors.Is(err, common.ErrJobNotFound) {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to load job status")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load job status")
		return
	}

	// The Redis entry expires after a day, fall back to job history.
	jobRepo := services.NewSearchJobRepository(h.db)
	stored, err := jobRepo.Get(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, common.ErrJobNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Search job not found")
			return
		}
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to load job status")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load job status")
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.JobStatusResponse{
		JobID:   stored.JobID,
		Status:  stored.Status,
		Message: stored.Message.String,
		Error:   stored.Error.String,
	})
}

func (h *SearchHandler) handleJobResults(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	result, status, err := h.loadResult(r, jobID)
	if err != nil {
		if errors.Is(err, common.ErrJobNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Search job not found")
			return
		}
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to load job results")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load job results")
		return
	}

	switch status {
	case models.JobStatusComplete:
		utils.WriteJSON(w, http.StatusOK, result)
	case models.JobStatusError:
		utils.WriteError(w, http.StatusBadRequest, common.ErrSearchFailed.Error())
	default:
		utils.WriteError(w, http.StatusBadRequest, common.ErrJobNotReady.Error())
	}
}

// loadResult reads the job from Redis first and falls back to history.
func (h *SearchHandler) loadResult(r *http.Request, jobID string) (json.RawMessage, string, error) {
	job, err := h.jobs.Get(r.Context(), jobID)
	if err == nil {
		return job.Result, job.Status, nil
	}
	if !errors.Is(err, common.ErrJobNotFound) {
		return nil, "", err
	}

	jobRepo := services.NewSearchJobRepository(h.db)
	stored, err := jobRepo.Get(r.Context(), jobID)
	if err != nil {
		return nil, "", err
	}
	return stored.Result, stored.Status, nil
}

func (h *SearchHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	page := parseQueryInt(r, "page", 1)
	perPage := parseQueryInt(r, "per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	jobRepo := services.NewSearchJobRepository(h.db)
	jobs, total, err := jobRepo.List(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list search jobs")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list search jobs")
		return
	}

	utils.WritePagination(w, http.StatusOK, jobs, page, perPage, total)
}

func (h *SearchHandler) handleJobLogs(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	page := parseQueryInt(r, "page", 1)
	perPage := parseQueryInt(r, "per_page", 50)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	logRepo := services.NewSearchLogRepository(h.db)
	logs, err := logRepo.ListByJob(r.Context(), jobID, perPage, (page-1)*perPage)
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to list search logs")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list search logs")
		return
	}

	utils.WriteJSON(w, http.StatusOK, logs)
}

func parseQueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

type SearchRunParams struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	MiddleName   string `json:"middle_name"`
	DateOfBirth  string `json:"date_of_birth" validate:"omitempty,datetime=01/02/2006"`
	Jurisdiction string `json:"jurisdiction"`
}
