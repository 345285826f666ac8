package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/lendingdesk/court-search-service/common"
	"github.com/lendingdesk/court-search-service/common/db"
	"github.com/lendingdesk/court-search-service/common/utils"
	"github.com/go-chi/chi/v5"
)

type HealthHandler struct {
	db     *db.DB
	router *chi.Mux
}

func NewHealthHandler(db *db.DB) *HealthHandler {
	h := &HealthHandler{
		db: db,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleHealthCheck)
	r.Get("/database", h.handleDatabaseHealth)
	r.Get("/redis", h.handleRedisHealth)

	h.router = r
	return h
}

func (h *HealthHandler) Router() *chi.Mux {
	return h.router
}

func (h *HealthHandler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   common.AppName,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *HealthHandler) handleDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stat := h.db.Pool.Stat()
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"database": map[string]interface{}{
			"status":            "healthy",
			"total_conns":       stat.TotalConns(),
			"idle_conns":        stat.IdleConns(),
			"acquired_conns":    stat.AcquiredConns(),
			"max_conns":         stat.MaxConns(),
			"new_conns_count":   stat.NewConnsCount(),
			"acquire_count":     stat.AcquireCount(),
			"canceled_acquires": stat.CanceledAcquireCount(),
		},
	}

	if err := h.db.Ping(ctx); err != nil {
		response["status"] = "unhealthy"
		response["database"].(map[string]interface{})["status"] = "unhealthy"
		response["database"].(map[string]interface{})["error"] = err.Error()
		utils.WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *HealthHandler) handleRedisHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"redis": map[string]interface{}{
			"status": "healthy",
		},
	}

	if err := h.db.Redis.GetClient().Ping(ctx).Err(); err != nil {
		response["status"] = "unhealthy"
		response["redis"].(map[string]interface{})["status"] = "unhealthy"
		response["redis"].(map[string]interface{})["error"] = err.Error()
		utils.WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}
